package journey

import "github.com/alexanderramin/journeyctl/internal/domain"

func (s *Store) GetReport(id string) (domain.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.reportIndexLocked(id); i >= 0 {
		return s.j.Reports[i].Clone(), true
	}
	return domain.Report{}, false
}

// GenerateReport snapshots the current goals, milestones and canvas.
func (s *Store) GenerateReport(typ domain.ReportType, name string) domain.Report {
	var r domain.Report
	s.commit(false, func() bool {
		snap := s.j.Clone()
		r = domain.Report{
			ID:          domain.NewID(),
			Name:        name,
			Type:        typ,
			GeneratedAt: s.now(),
			Data: domain.ReportData{
				Goals:      snap.Goals,
				Milestones: snap.Milestones,
				Nodes:      snap.Nodes,
				Edges:      snap.Edges,
				Stats:      domain.ComputeStats(snap),
			},
		}
		s.j.Reports = append(s.j.Reports, r)
		s.t.ChangedReports.Add(r.ID)
		s.touchLocked()
		r = r.Clone()
		return true
	})
	return r
}

func (s *Store) RemoveReport(id string) bool {
	return s.commit(false, func() bool {
		i := s.reportIndexLocked(id)
		if i < 0 {
			return false
		}
		s.j.Reports = append(s.j.Reports[:i], s.j.Reports[i+1:]...)
		s.t.ChangedReports.Add(id)
		s.touchLocked()
		return true
	})
}

// Stats derives the journey counters.
func (s *Store) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeStats(s.j)
}

func (s *Store) reportIndexLocked(id string) int {
	for i := range s.j.Reports {
		if s.j.Reports[i].ID == id {
			return i
		}
	}
	return -1
}

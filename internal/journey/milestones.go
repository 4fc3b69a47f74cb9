package journey

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

func (s *Store) GetMilestone(id string) (domain.Milestone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.milestoneIndexLocked(id); i >= 0 {
		return s.j.Milestones[i].Clone(), true
	}
	return domain.Milestone{}, false
}

// AddMilestone appends a milestone at the end of the ordering.
func (s *Store) AddMilestone(d domain.MilestoneDraft) domain.Milestone {
	var added domain.Milestone
	s.commit(false, func() bool {
		added = domain.NewMilestone(domain.NewID(), d, len(s.j.Milestones), s.now())
		s.j.Milestones = append(s.j.Milestones, added)
		s.t.ChangedMilestones.Add(added.ID)
		s.touchLocked()
		return true
	})
	return added.Clone()
}

func (s *Store) UpdateMilestone(id string, p domain.MilestonePatch) bool {
	return s.updateMilestone(id, func(m *domain.Milestone) { m.Apply(p) })
}

// UpdateMilestoneProgress clamps progress to [0, 100] and derives the status
// from the requested value.
func (s *Store) UpdateMilestoneProgress(id string, progress int) bool {
	return s.updateMilestone(id, func(m *domain.Milestone) {
		m.Progress = domain.ClampProgress(progress)
		m.Status = domain.Tag(domain.ProgressStatus(progress))
	})
}

func (s *Store) updateMilestone(id string, fn func(*domain.Milestone)) bool {
	return s.commit(false, func() bool {
		i := s.milestoneIndexLocked(id)
		if i < 0 {
			return false
		}
		fn(&s.j.Milestones[i])
		s.j.Milestones[i].UpdatedAt = s.now()
		s.t.ChangedMilestones.Add(id)
		s.touchLocked()
		return true
	})
}

// RemoveMilestone deletes the milestone; its id stays dirty as a tombstone.
func (s *Store) RemoveMilestone(id string) bool {
	return s.commit(false, func() bool {
		i := s.milestoneIndexLocked(id)
		if i < 0 {
			return false
		}
		s.j.Milestones = append(s.j.Milestones[:i], s.j.Milestones[i+1:]...)
		s.t.ChangedMilestones.Add(id)
		s.touchLocked()
		return true
	})
}

// ReorderMilestones moves the listed milestones to the front in list order
// and keeps the rest after them in their previous order, then reassigns
// sortOrder to the resulting index. Unknown or repeated ids are rejected
// before anything changes. Every milestone whose sortOrder moved is marked
// dirty.
func (s *Store) ReorderMilestones(orderedIDs []string) error {
	var err error
	s.commit(false, func() bool {
		pos := make(map[string]int, len(orderedIDs))
		for i, id := range orderedIDs {
			if _, dup := pos[id]; dup {
				err = fmt.Errorf("%w: %q listed twice", ErrInvalidOrder, id)
				return false
			}
			if s.milestoneIndexLocked(id) < 0 {
				err = fmt.Errorf("%w: unknown milestone %q", ErrInvalidOrder, id)
				return false
			}
			pos[id] = i
		}
		key := func(m domain.Milestone) int {
			if p, ok := pos[m.ID]; ok {
				return p
			}
			return len(orderedIDs) + m.SortOrder
		}
		sort.SliceStable(s.j.Milestones, func(a, b int) bool {
			return key(s.j.Milestones[a]) < key(s.j.Milestones[b])
		})
		now := s.now()
		for i := range s.j.Milestones {
			m := &s.j.Milestones[i]
			if _, listed := pos[m.ID]; !listed && m.SortOrder == i {
				continue
			}
			m.SortOrder = i
			m.UpdatedAt = now
			s.t.ChangedMilestones.Add(m.ID)
		}
		s.touchLocked()
		return true
	})
	return err
}

func (s *Store) milestoneIndexLocked(id string) int {
	for i := range s.j.Milestones {
		if s.j.Milestones[i].ID == id {
			return i
		}
	}
	return -1
}

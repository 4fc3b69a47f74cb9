package journey

import (
	"fmt"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

// NewJourney starts a fresh local journey with a placeholder id.
func (s *Store) NewJourney(name string) domain.Journey {
	var out domain.Journey
	s.commit(true, func() bool {
		now := s.now()
		if name == "" {
			name = fmt.Sprintf("Journey %d", now.UnixMilli())
		}
		j := domain.EmptyJourney(now)
		j.ID = domain.NewID()
		j.Name = name
		j.Description = "New journey created"
		s.replaceLocked(j)
		out = s.j.Clone()
		return true
	})
	return out
}

// ClearJourney drops the aggregate and all tracking.
func (s *Store) ClearJourney() {
	s.commit(true, func() bool {
		s.replaceLocked(domain.EmptyJourney(s.now()))
		return true
	})
}

// LoadJourney replaces the aggregate with a local document, such as an
// imported file.
func (s *Store) LoadJourney(j domain.Journey) {
	s.commit(true, func() bool {
		j = j.Clone()
		j.Normalize()
		j.UpdatedAt = s.now()
		s.replaceLocked(j)
		return true
	})
}

// UpdateJourney applies a metadata patch locally.
func (s *Store) UpdateJourney(p domain.JourneyPatch) bool {
	if p.IsEmpty() {
		return false
	}
	return s.commit(false, func() bool {
		s.j.Apply(p)
		s.markMetadataLocked()
		s.touchLocked()
		return true
	})
}

// replaceLocked swaps in j with clean tracking.
func (s *Store) replaceLocked(j domain.Journey) {
	s.j = j
	s.t = newTracking()
	s.metaGen++
}

package journey

import "github.com/alexanderramin/journeyctl/internal/domain"

func (s *Store) GetGoal(id string) (domain.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.goalIndexLocked(id); i >= 0 {
		return s.j.Goals[i].Clone(), true
	}
	return domain.Goal{}, false
}

// VisibleGoals returns every goal not soft-deleted.
func (s *Store) VisibleGoals() []domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Goal
	for _, g := range s.j.Goals {
		if !g.IsDeleted() {
			out = append(out, g.Clone())
		}
	}
	return out
}

func (s *Store) AddGoal(d domain.GoalDraft) domain.Goal {
	var added domain.Goal
	s.commit(false, func() bool {
		added = domain.NewGoal(domain.NewID(), d, s.now())
		s.j.Goals = append(s.j.Goals, added)
		s.t.ChangedGoals.Add(added.ID)
		s.touchLocked()
		return true
	})
	return added.Clone()
}

// UpdateGoal merges p into the goal. Unknown ids are ignored.
func (s *Store) UpdateGoal(id string, p domain.GoalPatch) bool {
	return s.updateGoal(id, func(g *domain.Goal) { g.Apply(p) })
}

// CompleteGoal marks the goal completed and fills its progress.
func (s *Store) CompleteGoal(id string) bool {
	return s.updateGoal(id, func(g *domain.Goal) {
		g.Status = domain.Tag(domain.GoalCompleted)
		g.CurrentValue = g.TargetValue
	})
}

// RemoveGoal soft-deletes the goal. It stays in the collection with status
// deleted and is hidden from VisibleGoals.
func (s *Store) RemoveGoal(id string) bool {
	return s.updateGoal(id, func(g *domain.Goal) {
		g.Status = domain.Tag(domain.GoalDeleted)
	})
}

func (s *Store) updateGoal(id string, fn func(*domain.Goal)) bool {
	return s.commit(false, func() bool {
		i := s.goalIndexLocked(id)
		if i < 0 {
			return false
		}
		fn(&s.j.Goals[i])
		s.j.Goals[i].UpdatedAt = s.now()
		s.t.ChangedGoals.Add(id)
		s.touchLocked()
		return true
	})
}

// UpdateGoalLogicOperator sets how goal completion combines.
func (s *Store) UpdateGoalLogicOperator(op domain.LogicOperator) bool {
	if op != domain.LogicAnd && op != domain.LogicOr {
		return false
	}
	return s.commit(false, func() bool {
		s.j.GoalLogicOperator = op
		s.markMetadataLocked()
		s.touchLocked()
		return true
	})
}

func (s *Store) goalIndexLocked(id string) int {
	for i := range s.j.Goals {
		if s.j.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

package domain

// ComputeStats derives the journey counters. Completion is compared on the
// tagged status value.
func ComputeStats(j Journey) Stats {
	s := Stats{
		TotalGoals:      len(j.Goals),
		TotalMilestones: len(j.Milestones),
		TotalNodes:      len(j.Nodes),
		TotalEdges:      len(j.Edges),
		TotalReports:    len(j.Reports),
	}
	for _, g := range j.Goals {
		if g.IsCompleted() {
			s.CompletedGoals++
		}
	}
	for _, m := range j.Milestones {
		if m.IsCompleted() {
			s.CompletedMilestones++
		}
	}
	return s
}

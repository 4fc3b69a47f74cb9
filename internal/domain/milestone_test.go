package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-10))
	assert.Equal(t, 55, ClampProgress(55))
	assert.Equal(t, 100, ClampProgress(250))
}

func TestProgressStatus(t *testing.T) {
	assert.Equal(t, MilestonePending, ProgressStatus(-5))
	assert.Equal(t, MilestonePending, ProgressStatus(0))
	assert.Equal(t, MilestoneInProgress, ProgressStatus(40))
	assert.Equal(t, MilestoneCompleted, ProgressStatus(100))
}

func TestNewMilestone_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	m := NewMilestone("m1", MilestoneDraft{Title: "Launch", Progress: 120}, 3, now)

	assert.Equal(t, Tag(MilestoneActive), m.Status)
	assert.Equal(t, 100, m.Progress)
	assert.Equal(t, 3, m.SortOrder)
	assert.NotNil(t, m.Dependencies)
	assert.Equal(t, now, m.CreatedAt)
}

func TestNewGoal_Defaults(t *testing.T) {
	g := NewGoal("g1", GoalDraft{Title: "Activate"}, time.Now())
	assert.Equal(t, Tag(GoalNotStarted), g.Status)
	assert.Equal(t, Tag(PriorityMedium), g.Priority)
}

func TestComputeStats(t *testing.T) {
	j := EmptyJourney(time.Now())
	j.Goals = []Goal{
		{ID: "g1", Status: Tag(GoalCompleted)},
		{ID: "g2", Status: Tag(GoalActive)},
	}
	j.Milestones = []Milestone{{ID: "m1", Status: Tag(MilestoneCompleted)}}
	j.Nodes = []Node{{ID: "n1"}, {ID: "n2"}}
	j.Edges = []Edge{{ID: "e1", Source: "n1", Target: "n2"}}

	assert.Equal(t, Stats{
		TotalGoals: 2, CompletedGoals: 1,
		TotalMilestones: 1, CompletedMilestones: 1,
		TotalNodes: 2, TotalEdges: 1,
	}, ComputeStats(j))
}

func TestJourneyNormalize(t *testing.T) {
	j := Journey{Goals: []Goal{{ID: "g"}}, Milestones: []Milestone{{ID: "m"}}}
	j.Normalize()

	assert.Equal(t, LogicAnd, j.GoalLogicOperator)
	assert.NotNil(t, j.Nodes)
	assert.Equal(t, Tag(GoalActive), j.Goals[0].Status)
	assert.Equal(t, Tag(PriorityMedium), j.Goals[0].Priority)
	assert.Equal(t, Tag(MilestoneActive), j.Milestones[0].Status)
}

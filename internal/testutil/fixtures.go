package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

var fixtureCounter atomic.Int64

// FixedNow is the clock used by fixtures.
var FixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, fixtureCounter.Add(1))
}

// Node options
type NodeOption func(*domain.Node)

func WithNodeID(id string) NodeOption {
	return func(n *domain.Node) { n.ID = id }
}

func WithNodeData(data map[string]any) NodeOption {
	return func(n *domain.Node) { n.Data = data }
}

func WithPosition(x, y float64) NodeOption {
	return func(n *domain.Node) { n.Position = domain.Position{X: x, Y: y} }
}

func NewTestNode(subtype domain.NodeSubtype, opts ...NodeOption) domain.Node {
	n := domain.Node{
		ID:      nextID("node"),
		Type:    "journey",
		Subtype: subtype,
		Data:    map[string]any{"label": string(subtype)},
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func NewTestEdge(source, target string) domain.Edge {
	return domain.Edge{
		ID:     nextID("edge"),
		Source: source,
		Target: target,
		Type:   "custom",
		Data:   map[string]any{},
	}
}

// Goal options
type GoalOption func(*domain.Goal)

func WithGoalStatus(s domain.GoalStatus) GoalOption {
	return func(g *domain.Goal) { g.Status = domain.Tag(s) }
}

func WithGoalTarget(current, target float64) GoalOption {
	return func(g *domain.Goal) {
		g.CurrentValue = current
		g.TargetValue = target
	}
}

func NewTestGoal(title string, opts ...GoalOption) domain.Goal {
	g := domain.NewGoal(nextID("goal"), domain.GoalDraft{Title: title, TargetValue: 100, Unit: "%"}, FixedNow)
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithProgress(p int) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Progress = domain.ClampProgress(p)
		m.Status = domain.Tag(domain.ProgressStatus(p))
	}
}

func NewTestMilestone(title string, sortOrder int, opts ...MilestoneOption) domain.Milestone {
	m := domain.NewMilestone(nextID("milestone"), domain.MilestoneDraft{Title: title}, sortOrder, FixedNow)
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Journey options
type JourneyOption func(*domain.Journey)

func WithJourneyID(id string) JourneyOption {
	return func(j *domain.Journey) { j.ID = id }
}

func WithCanvas(nodes []domain.Node, edges []domain.Edge) JourneyOption {
	return func(j *domain.Journey) {
		j.Nodes = nodes
		j.Edges = edges
	}
}

func WithGoals(goals ...domain.Goal) JourneyOption {
	return func(j *domain.Journey) { j.Goals = goals }
}

func WithMilestones(milestones ...domain.Milestone) JourneyOption {
	return func(j *domain.Journey) { j.Milestones = milestones }
}

// NewTestJourney returns a journey with an entry node wired to a wait node.
func NewTestJourney(name string, opts ...JourneyOption) domain.Journey {
	j := domain.EmptyJourney(FixedNow)
	j.ID = nextID("journey")
	j.Name = name
	entry := NewTestNode(domain.SubtypeEntry, WithPosition(0, 0))
	wait := NewTestNode(domain.SubtypeWait, WithPosition(200, 0))
	j.Nodes = []domain.Node{entry, wait}
	j.Edges = []domain.Edge{NewTestEdge(entry.ID, wait.ID)}
	for _, opt := range opts {
		opt(&j)
	}
	j.Normalize()
	return j
}

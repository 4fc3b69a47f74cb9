package journey

import (
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

// Tracking is the dirty-entity bookkeeping persisted alongside the journey.
type Tracking struct {
	ChangedNodes      domain.IDSet `json:"changedNodes"`
	ChangedEdges      domain.IDSet `json:"changedEdges"`
	ChangedGoals      domain.IDSet `json:"changedGoals"`
	ChangedMilestones domain.IDSet `json:"changedMilestones"`
	ChangedReports    domain.IDSet `json:"changedReports"`
	MetadataChanged   bool         `json:"isJourneyMetadataChanged"`
	UnsavedChanges    bool         `json:"unsavedChanges"`
	LastSavedAt       *time.Time   `json:"lastSavedAt"`
	LastSavedHash     string       `json:"lastSavedHash"`
}

func newTracking() Tracking {
	t := Tracking{}
	t.normalize()
	return t
}

// normalize replaces sets missing from decoded state.
func (t *Tracking) normalize() {
	for _, set := range []*domain.IDSet{
		&t.ChangedNodes, &t.ChangedEdges, &t.ChangedGoals, &t.ChangedMilestones, &t.ChangedReports,
	} {
		if *set == nil {
			*set = domain.IDSet{}
		}
	}
}

func (t Tracking) clone() Tracking {
	t.ChangedNodes = t.ChangedNodes.Clone()
	t.ChangedEdges = t.ChangedEdges.Clone()
	t.ChangedGoals = t.ChangedGoals.Clone()
	t.ChangedMilestones = t.ChangedMilestones.Clone()
	t.ChangedReports = t.ChangedReports.Clone()
	if t.LastSavedAt != nil {
		at := *t.LastSavedAt
		t.LastSavedAt = &at
	}
	return t
}

func (t Tracking) anyDirty() bool {
	return t.MetadataChanged ||
		t.ChangedNodes.Len() > 0 || t.ChangedEdges.Len() > 0 ||
		t.ChangedGoals.Len() > 0 || t.ChangedMilestones.Len() > 0 ||
		t.ChangedReports.Len() > 0
}

// family selects which dirty sets a sync operation covers.
type family uint8

const (
	famNodes family = 1 << iota
	famEdges
	famGoals
	famMilestones
	famReports

	famCanvas = famNodes | famEdges
	famAll    = famNodes | famEdges | famGoals | famMilestones | famReports
)

// settle removes the ids captured before an upload. Ids marked while the
// upload was in flight stay dirty.
func (t *Tracking) settle(captured Tracking, f family) {
	if f&famNodes != 0 {
		t.ChangedNodes.Subtract(captured.ChangedNodes)
	}
	if f&famEdges != 0 {
		t.ChangedEdges.Subtract(captured.ChangedEdges)
	}
	if f&famGoals != 0 {
		t.ChangedGoals.Subtract(captured.ChangedGoals)
	}
	if f&famMilestones != 0 {
		t.ChangedMilestones.Subtract(captured.ChangedMilestones)
	}
	if f&famReports != 0 {
		t.ChangedReports.Subtract(captured.ChangedReports)
	}
}

// ChangedItems is the subset of each collection currently marked dirty.
// Removed* hold dirty ids with no surviving entity: tombstones for the
// next sync.
type ChangedItems struct {
	Nodes              []domain.Node
	Edges              []domain.Edge
	Goals              []domain.Goal
	Milestones         []domain.Milestone
	Reports            []domain.Report
	RemovedNodes       []string
	RemovedEdges       []string
	RemovedMilestones  []string
	RemovedReports     []string
	HasMetadataChanges bool
}

func (c ChangedItems) IsEmpty() bool {
	return !c.HasMetadataChanges &&
		len(c.Nodes) == 0 && len(c.Edges) == 0 && len(c.Goals) == 0 &&
		len(c.Milestones) == 0 && len(c.Reports) == 0 &&
		len(c.RemovedNodes) == 0 && len(c.RemovedEdges) == 0 &&
		len(c.RemovedMilestones) == 0 && len(c.RemovedReports) == 0
}

func changedItems(j domain.Journey, t Tracking) ChangedItems {
	c := ChangedItems{HasMetadataChanges: t.MetadataChanged}
	c.Nodes, c.RemovedNodes = pick(j.Nodes, t.ChangedNodes, func(n domain.Node) string { return n.ID })
	c.Edges, c.RemovedEdges = pick(j.Edges, t.ChangedEdges, func(e domain.Edge) string { return e.ID })
	c.Goals, _ = pick(j.Goals, t.ChangedGoals, func(g domain.Goal) string { return g.ID })
	c.Milestones, c.RemovedMilestones = pick(j.Milestones, t.ChangedMilestones, func(m domain.Milestone) string { return m.ID })
	c.Reports, c.RemovedReports = pick(j.Reports, t.ChangedReports, func(r domain.Report) string { return r.ID })
	return c
}

// pick returns the items whose id is in dirty, and the dirty ids that match
// no item.
func pick[T any](items []T, dirty domain.IDSet, id func(T) string) ([]T, []string) {
	var out []T
	seen := make(map[string]bool, dirty.Len())
	for _, it := range items {
		k := id(it)
		if dirty.Has(k) {
			out = append(out, it)
			seen[k] = true
		}
	}
	var missing []string
	for _, k := range dirty.Sorted() {
		if !seen[k] {
			missing = append(missing, k)
		}
	}
	return out, missing
}

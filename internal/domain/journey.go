package domain

import (
	"reflect"
	"time"
)

// Flags are the mutually independent lifecycle switches of a journey.
type Flags struct {
	IsPublished bool `json:"isPublished"`
	IsDeleted   bool `json:"isDeleted"`
	IsArchived  bool `json:"isArchived"`
	IsLocked    bool `json:"isLocked"`
	IsReadOnly  bool `json:"isReadOnly"`
	IsEditable  bool `json:"isEditable"`
	IsViewOnly  bool `json:"isViewOnly"`
}

func DefaultFlags() Flags {
	return Flags{IsEditable: true}
}

// Journey is the aggregate root of one customer-journey design.
type Journey struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Flags

	Nodes             []Node        `json:"nodes"`
	Edges             []Edge        `json:"edges"`
	Goals             []Goal        `json:"goals"`
	GoalLogicOperator LogicOperator `json:"goalLogicOperator"`
	Milestones        []Milestone   `json:"milestones"`
	Reports           []Report      `json:"reports"`
}

const (
	DefaultJourneyName        = "Customer Journey"
	DefaultJourneyDescription = "Design your customer journey flow"
)

// EmptyJourney returns a journey with no id, default naming and empty
// collections.
func EmptyJourney(now time.Time) Journey {
	return Journey{
		Name:              DefaultJourneyName,
		Description:       DefaultJourneyDescription,
		CreatedAt:         now,
		UpdatedAt:         now,
		Flags:             DefaultFlags(),
		Nodes:             []Node{},
		Edges:             []Edge{},
		Goals:             []Goal{},
		GoalLogicOperator: LogicAnd,
		Milestones:        []Milestone{},
		Reports:           []Report{},
	}
}

// Normalize fills nil collections and empty enum fields so that decoded
// documents have the same shape as locally built ones.
func (j *Journey) Normalize() {
	if j.Nodes == nil {
		j.Nodes = []Node{}
	}
	if j.Edges == nil {
		j.Edges = []Edge{}
	}
	if j.Goals == nil {
		j.Goals = []Goal{}
	}
	if j.Milestones == nil {
		j.Milestones = []Milestone{}
	}
	if j.Reports == nil {
		j.Reports = []Report{}
	}
	if j.GoalLogicOperator == "" {
		j.GoalLogicOperator = LogicAnd
	}
	for i := range j.Goals {
		j.Goals[i].Status = j.Goals[i].Status.Or(GoalActive)
		j.Goals[i].Priority = j.Goals[i].Priority.Or(PriorityMedium)
	}
	for i := range j.Milestones {
		j.Milestones[i].Status = j.Milestones[i].Status.Or(MilestoneActive)
	}
}

func (j Journey) Clone() Journey {
	j.Nodes = cloneNodes(j.Nodes)
	j.Edges = cloneEdges(j.Edges)
	j.Goals = cloneGoals(j.Goals)
	j.Milestones = cloneMilestones(j.Milestones)
	reports := make([]Report, len(j.Reports))
	for i, r := range j.Reports {
		reports[i] = r.Clone()
	}
	j.Reports = reports
	return j
}

func (j Journey) Canvas() Canvas {
	return Canvas{Nodes: cloneNodes(j.Nodes), Edges: cloneEdges(j.Edges)}
}

// JourneyPatch is a partial update of journey metadata.
type JourneyPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublished *bool   `json:"isPublished,omitempty"`
	IsDeleted   *bool   `json:"isDeleted,omitempty"`
	IsArchived  *bool   `json:"isArchived,omitempty"`
	IsLocked    *bool   `json:"isLocked,omitempty"`
	IsReadOnly  *bool   `json:"isReadOnly,omitempty"`
	IsEditable  *bool   `json:"isEditable,omitempty"`
	IsViewOnly  *bool   `json:"isViewOnly,omitempty"`
}

func (p JourneyPatch) IsEmpty() bool {
	return p == JourneyPatch{}
}

func (j *Journey) Apply(p JourneyPatch) {
	setStr(&j.Name, p.Name)
	setStr(&j.Description, p.Description)
	setBool(&j.IsPublished, p.IsPublished)
	setBool(&j.IsDeleted, p.IsDeleted)
	setBool(&j.IsArchived, p.IsArchived)
	setBool(&j.IsLocked, p.IsLocked)
	setBool(&j.IsReadOnly, p.IsReadOnly)
	setBool(&j.IsEditable, p.IsEditable)
	setBool(&j.IsViewOnly, p.IsViewOnly)
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ListOptions filters the remote journey listing.
type ListOptions struct {
	UserID string
	Limit  int
	Offset int
}

// Canvas is the (nodes, edges) pair edited on the flow canvas.
type Canvas struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (c Canvas) Clone() Canvas {
	return Canvas{Nodes: cloneNodes(c.Nodes), Edges: cloneEdges(c.Edges)}
}

func (c Canvas) IsEmpty() bool {
	return len(c.Nodes) == 0 && len(c.Edges) == 0
}

// Equal reports structural equality, treating nil and empty collections alike.
func (c Canvas) Equal(o Canvas) bool {
	if len(c.Nodes) != len(o.Nodes) || len(c.Edges) != len(o.Edges) {
		return false
	}
	for i := range c.Nodes {
		if !reflect.DeepEqual(c.Nodes[i], o.Nodes[i]) {
			return false
		}
	}
	for i := range c.Edges {
		if !reflect.DeepEqual(c.Edges[i], o.Edges[i]) {
			return false
		}
	}
	return true
}

func cloneNodes(in []Node) []Node {
	out := make([]Node, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}

func cloneEdges(in []Edge) []Edge {
	out := make([]Edge, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func cloneGoals(in []Goal) []Goal {
	out := make([]Goal, len(in))
	for i, g := range in {
		out[i] = g.Clone()
	}
	return out
}

func cloneMilestones(in []Milestone) []Milestone {
	out := make([]Milestone, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

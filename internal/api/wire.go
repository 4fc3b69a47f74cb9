package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

// Time accepts RFC 3339 as well as the zone-less ISO timestamps the backend
// emits, and always encodes as RFC 3339 in UTC.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("decoding timestamp: unrecognized format %q", s)
}

func timePtr(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	return &Time{Time: *t}
}

func (t *Time) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// Value encodes an enum as a bare string and decodes either shape.
type Value[T ~string] struct {
	domain.Tagged[T]
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v.Value))
}

type wireNode struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Subtype  domain.NodeSubtype `json:"node-subtype"`
	Position *domain.Position   `json:"position,omitempty"`
	Data     map[string]any     `json:"data"`
	Selected bool               `json:"selected"`
}

// nodesToWire drops positions; layout is not persisted remotely.
func nodesToWire(nodes []domain.Node) []wireNode {
	out := make([]wireNode, len(nodes))
	for i, n := range nodes {
		data := n.Data
		if data == nil {
			data = map[string]any{}
		}
		out[i] = wireNode{ID: n.ID, Type: n.Type, Subtype: n.Subtype, Data: data, Selected: n.Selected}
	}
	return out
}

func nodesFromWire(nodes []wireNode) []domain.Node {
	out := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		node := domain.Node{ID: n.ID, Type: n.Type, Subtype: n.Subtype, Data: n.Data, Selected: n.Selected}
		if node.Subtype == "" {
			node.Subtype = domain.SubtypeUnknown
		}
		if n.Position != nil {
			node.Position = *n.Position
		}
		out[i] = node
	}
	return out
}

func edgesOrEmpty(edges []domain.Edge) []domain.Edge {
	if edges == nil {
		return []domain.Edge{}
	}
	return edges
}

type wireGoal struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	TargetValue  float64                  `json:"targetValue"`
	CurrentValue float64                  `json:"currentValue"`
	Unit         string                   `json:"unit"`
	Deadline     *Time                    `json:"deadline"`
	Status       Value[domain.GoalStatus] `json:"status"`
	Priority     Value[domain.Priority]   `json:"priority"`
	Category     string                   `json:"category"`
	CreatedAt    Time                     `json:"createdAt"`
	UpdatedAt    Time                     `json:"updatedAt"`
}

func goalsToWire(goals []domain.Goal) []wireGoal {
	out := make([]wireGoal, len(goals))
	for i, g := range goals {
		out[i] = wireGoal{
			ID:           g.ID,
			Title:        g.Title,
			Description:  g.Description,
			TargetValue:  g.TargetValue,
			CurrentValue: g.CurrentValue,
			Unit:         g.Unit,
			Deadline:     timePtr(g.Deadline),
			Status:       Value[domain.GoalStatus]{g.Status},
			Priority:     Value[domain.Priority]{g.Priority},
			Category:     g.Category,
			CreatedAt:    Time{g.CreatedAt},
			UpdatedAt:    Time{g.UpdatedAt},
		}
	}
	return out
}

// goalsFromWire normalizes status and priority into their tagged form,
// defaulting missing values.
func goalsFromWire(goals []wireGoal) []domain.Goal {
	out := make([]domain.Goal, len(goals))
	for i, g := range goals {
		out[i] = domain.Goal{
			ID:           g.ID,
			Title:        g.Title,
			Description:  g.Description,
			TargetValue:  g.TargetValue,
			CurrentValue: g.CurrentValue,
			Unit:         g.Unit,
			Deadline:     g.Deadline.ptr(),
			Status:       g.Status.Or(domain.GoalActive),
			Priority:     g.Priority.Or(domain.PriorityMedium),
			Category:     g.Category,
			CreatedAt:    g.CreatedAt.Time,
			UpdatedAt:    g.UpdatedAt.Time,
		}
	}
	return out
}

type wireMilestone struct {
	ID           string                        `json:"id"`
	Title        string                        `json:"title"`
	Description  string                        `json:"description"`
	TargetDate   *Time                         `json:"targetDate"`
	Status       Value[domain.MilestoneStatus] `json:"status"`
	Progress     int                           `json:"progress"`
	Dependencies []string                      `json:"dependencies"`
	SortOrder    int                           `json:"sortOrder"`
	CreatedAt    Time                          `json:"createdAt"`
	UpdatedAt    Time                          `json:"updatedAt"`
}

// milestonesToWire re-derives sortOrder from slice position.
func milestonesToWire(ms []domain.Milestone) []wireMilestone {
	out := make([]wireMilestone, len(ms))
	for i, m := range ms {
		deps := m.Dependencies
		if deps == nil {
			deps = []string{}
		}
		out[i] = wireMilestone{
			ID:           m.ID,
			Title:        m.Title,
			Description:  m.Description,
			TargetDate:   timePtr(m.TargetDate),
			Status:       Value[domain.MilestoneStatus]{m.Status},
			Progress:     m.Progress,
			Dependencies: deps,
			SortOrder:    i,
			CreatedAt:    Time{m.CreatedAt},
			UpdatedAt:    Time{m.UpdatedAt},
		}
	}
	return out
}

func milestonesFromWire(ms []wireMilestone) []domain.Milestone {
	out := make([]domain.Milestone, len(ms))
	for i, m := range ms {
		deps := m.Dependencies
		if deps == nil {
			deps = []string{}
		}
		out[i] = domain.Milestone{
			ID:           m.ID,
			Title:        m.Title,
			Description:  m.Description,
			TargetDate:   m.TargetDate.ptr(),
			Status:       m.Status.Or(domain.MilestoneActive),
			Progress:     domain.ClampProgress(m.Progress),
			Dependencies: deps,
			SortOrder:    m.SortOrder,
			CreatedAt:    m.CreatedAt.Time,
			UpdatedAt:    m.UpdatedAt.Time,
		}
	}
	return out
}

type wireReport struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        domain.ReportType `json:"type"`
	GeneratedAt Time              `json:"generatedAt"`
	Data        domain.ReportData `json:"data"`
}

type wireJourney struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   Time   `json:"createdAt"`
	UpdatedAt   Time   `json:"updatedAt"`
	domain.Flags

	Nodes             []wireNode           `json:"nodes"`
	Edges             []domain.Edge        `json:"edges"`
	Goals             []wireGoal           `json:"goals"`
	GoalLogicOperator domain.LogicOperator `json:"goalLogicOperator"`
	Milestones        []wireMilestone      `json:"milestones"`
	Reports           []wireReport         `json:"reports"`
}

func journeyToWire(j domain.Journey) wireJourney {
	reports := make([]wireReport, len(j.Reports))
	for i, r := range j.Reports {
		reports[i] = wireReport{ID: r.ID, Name: r.Name, Type: r.Type, GeneratedAt: Time{r.GeneratedAt}, Data: r.Data}
	}
	return wireJourney{
		ID:                j.ID,
		Name:              j.Name,
		Description:       j.Description,
		CreatedAt:         Time{j.CreatedAt},
		UpdatedAt:         Time{j.UpdatedAt},
		Flags:             j.Flags,
		Nodes:             nodesToWire(j.Nodes),
		Edges:             edgesOrEmpty(j.Edges),
		Goals:             goalsToWire(j.Goals),
		GoalLogicOperator: j.GoalLogicOperator,
		Milestones:        milestonesToWire(j.Milestones),
		Reports:           reports,
	}
}

func (w wireJourney) toDomain() domain.Journey {
	reports := make([]domain.Report, len(w.Reports))
	for i, r := range w.Reports {
		reports[i] = domain.Report{ID: r.ID, Name: r.Name, Type: r.Type, GeneratedAt: r.GeneratedAt.Time, Data: r.Data}
	}
	j := domain.Journey{
		ID:                w.ID,
		Name:              w.Name,
		Description:       w.Description,
		CreatedAt:         w.CreatedAt.Time,
		UpdatedAt:         w.UpdatedAt.Time,
		Flags:             w.Flags,
		Nodes:             nodesFromWire(w.Nodes),
		Edges:             w.Edges,
		Goals:             goalsFromWire(w.Goals),
		GoalLogicOperator: w.GoalLogicOperator,
		Milestones:        milestonesFromWire(w.Milestones),
		Reports:           reports,
	}
	j.Normalize()
	return j
}

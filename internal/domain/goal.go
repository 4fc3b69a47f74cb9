package domain

import "time"

type Goal struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TargetValue  float64            `json:"targetValue"`
	CurrentValue float64            `json:"currentValue"`
	Unit         string             `json:"unit"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
	Status       Tagged[GoalStatus] `json:"status"`
	Priority     Tagged[Priority]   `json:"priority"`
	Category     string             `json:"category"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// GoalDraft carries the caller-supplied fields of a new goal. Status and
// Priority accept either a bare string or a {"value": ...} object when
// decoded from JSON.
type GoalDraft struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TargetValue  float64            `json:"targetValue"`
	CurrentValue float64            `json:"currentValue"`
	Unit         string             `json:"unit"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
	Status       Tagged[GoalStatus] `json:"status"`
	Priority     Tagged[Priority]   `json:"priority"`
	Category     string             `json:"category"`
}

type GoalPatch struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	TargetValue  *float64            `json:"targetValue,omitempty"`
	CurrentValue *float64            `json:"currentValue,omitempty"`
	Unit         *string             `json:"unit,omitempty"`
	Deadline     *time.Time          `json:"deadline,omitempty"`
	Status       *Tagged[GoalStatus] `json:"status,omitempty"`
	Priority     *Tagged[Priority]   `json:"priority,omitempty"`
	Category     *string             `json:"category,omitempty"`
}

// NewGoal builds a goal from d, defaulting empty status and priority.
func NewGoal(id string, d GoalDraft, now time.Time) Goal {
	return Goal{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		TargetValue:  d.TargetValue,
		CurrentValue: d.CurrentValue,
		Unit:         d.Unit,
		Deadline:     d.Deadline,
		Status:       d.Status.Or(GoalNotStarted),
		Priority:     d.Priority.Or(PriorityMedium),
		Category:     d.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (g *Goal) Apply(p GoalPatch) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetValue != nil {
		g.TargetValue = *p.TargetValue
	}
	if p.CurrentValue != nil {
		g.CurrentValue = *p.CurrentValue
	}
	if p.Unit != nil {
		g.Unit = *p.Unit
	}
	if p.Deadline != nil {
		d := *p.Deadline
		g.Deadline = &d
	}
	if p.Status != nil && !p.Status.IsZero() {
		g.Status = *p.Status
	}
	if p.Priority != nil && !p.Priority.IsZero() {
		g.Priority = *p.Priority
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
}

func (g Goal) IsDeleted() bool   { return g.Status.Value == GoalDeleted }
func (g Goal) IsCompleted() bool { return g.Status.Value == GoalCompleted }

func (g Goal) Clone() Goal {
	if g.Deadline != nil {
		d := *g.Deadline
		g.Deadline = &d
	}
	return g
}

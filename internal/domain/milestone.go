package domain

import "time"

type Milestone struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	TargetDate   *time.Time              `json:"targetDate,omitempty"`
	Status       Tagged[MilestoneStatus] `json:"status"`
	Progress     int                     `json:"progress"`
	Dependencies []string                `json:"dependencies"`
	SortOrder    int                     `json:"sortOrder"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

type MilestoneDraft struct {
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	TargetDate   *time.Time              `json:"targetDate,omitempty"`
	Status       Tagged[MilestoneStatus] `json:"status"`
	Progress     int                     `json:"progress"`
	Dependencies []string                `json:"dependencies"`
}

type MilestonePatch struct {
	Title        *string                  `json:"title,omitempty"`
	Description  *string                  `json:"description,omitempty"`
	TargetDate   *time.Time               `json:"targetDate,omitempty"`
	Status       *Tagged[MilestoneStatus] `json:"status,omitempty"`
	Progress     *int                     `json:"progress,omitempty"`
	Dependencies []string                 `json:"dependencies,omitempty"`
}

// NewMilestone builds a milestone from d placed at sortOrder.
func NewMilestone(id string, d MilestoneDraft, sortOrder int, now time.Time) Milestone {
	return Milestone{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		TargetDate:   d.TargetDate,
		Status:       d.Status.Or(MilestoneActive),
		Progress:     ClampProgress(d.Progress),
		Dependencies: append([]string{}, d.Dependencies...),
		SortOrder:    sortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (m *Milestone) Apply(p MilestonePatch) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.TargetDate != nil {
		d := *p.TargetDate
		m.TargetDate = &d
	}
	if p.Status != nil && !p.Status.IsZero() {
		m.Status = *p.Status
	}
	if p.Progress != nil {
		m.Progress = ClampProgress(*p.Progress)
	}
	if p.Dependencies != nil {
		m.Dependencies = append([]string{}, p.Dependencies...)
	}
}

func (m Milestone) IsCompleted() bool { return m.Status.Value == MilestoneCompleted }

func (m Milestone) Clone() Milestone {
	if m.TargetDate != nil {
		d := *m.TargetDate
		m.TargetDate = &d
	}
	m.Dependencies = append([]string{}, m.Dependencies...)
	return m
}

// ClampProgress bounds p to [0, 100].
func ClampProgress(p int) int {
	return max(0, min(100, p))
}

// ProgressStatus is the status implied by a requested progress value.
func ProgressStatus(p int) MilestoneStatus {
	switch {
	case p >= 100:
		return MilestoneCompleted
	case p > 0:
		return MilestoneInProgress
	default:
		return MilestonePending
	}
}

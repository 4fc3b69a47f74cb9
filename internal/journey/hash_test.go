package journey

import (
	"testing"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashJourney() domain.Journey {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.Journey{
		ID:   "j1",
		Name: "Onboarding",
		Nodes: []domain.Node{
			{ID: "n1", Type: "custom", Subtype: domain.SubtypeEntry, Position: domain.Position{X: 1, Y: 2}, Data: map[string]any{"label": "Start"}},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "n1", Target: "n1", Data: map[string]any{}}},
		Goals: []domain.Goal{{ID: "g1", Title: "Activate", CreatedAt: created, UpdatedAt: created}},
		Milestones: []domain.Milestone{
			{ID: "m1", Title: "Kickoff", CreatedAt: created, UpdatedAt: created},
		},
		Reports: []domain.Report{{ID: "r1", Name: "summary", GeneratedAt: created}},
	}
}

func TestContentHash_IgnoresTransientFields(t *testing.T) {
	base, err := ContentHash(hashJourney())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*domain.Journey)
	}{
		{"node position", func(j *domain.Journey) { j.Nodes[0].Position = domain.Position{X: 40, Y: 80} }},
		{"node selection", func(j *domain.Journey) { j.Nodes[0].Selected = true }},
		{"edge selection", func(j *domain.Journey) { j.Edges[0].Selected = true }},
		{"goal timestamps", func(j *domain.Journey) { j.Goals[0].UpdatedAt = time.Now() }},
		{"milestone timestamps", func(j *domain.Journey) { j.Milestones[0].UpdatedAt = time.Now() }},
		{"report generatedAt", func(j *domain.Journey) { j.Reports[0].GeneratedAt = time.Now() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := hashJourney()
			tt.mutate(&j)
			got, err := ContentHash(j)
			require.NoError(t, err)
			assert.Equal(t, base, got)
		})
	}
}

func TestContentHash_TracksContent(t *testing.T) {
	base, err := ContentHash(hashJourney())
	require.NoError(t, err)

	j := hashJourney()
	j.Goals[0].Title = "Retain"
	got, err := ContentHash(j)
	require.NoError(t, err)
	assert.NotEqual(t, base, got)

	j = hashJourney()
	j.Nodes[0].Data["label"] = "Begin"
	got, err = ContentHash(j)
	require.NoError(t, err)
	assert.NotEqual(t, base, got)
}

package journey

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alexanderramin/journeyctl/internal/api"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/notify"
	"github.com/alexanderramin/journeyctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteStore(t *testing.T) (*Store, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	cfg := api.DefaultConfig()
	cfg.BaseURL = fake.URL
	s := newTestStore(t,
		WithAPI(api.NewClient(cfg, nil)),
		WithNotifier(&notify.Recorder{}),
		WithRetryDelay(noDelay),
	)
	return s, fake
}

func TestE2E_ConnectAndSaveCanvas(t *testing.T) {
	s, fake := newRemoteStore(t)
	ctx := context.Background()

	_, err := s.CreateInAPI(ctx, "Onboarding", "")
	require.NoError(t, err)

	n1 := s.AddNode(domain.Node{Type: "journey", Subtype: domain.SubtypeEntry, Position: domain.Position{X: 0, Y: 0}})
	n2 := s.AddNode(domain.Node{Type: "journey", Subtype: domain.SubtypeDecision, Position: domain.Position{X: 200, Y: 0}})
	e := s.Connect(ConnectParams{Source: n1.ID, Target: n2.ID, SourceHandle: "yes"})
	assert.Equal(t, "Yes", e.Label())

	require.Equal(t, StatusDone, s.SaveCanvasToAPI(ctx).Status)
	require.Equal(t, 1, fake.Count(http.MethodPost, "/canvas"))

	var body map[string]any
	for _, c := range fake.Calls() {
		if c.Method == http.MethodPost && c.Path == "/api/journeys/"+s.ID()+"/canvas" {
			body = c.Body
		}
	}
	require.NotNil(t, body)
	nodes := body["nodes"].([]any)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.NotContains(t, n.(map[string]any), "position")
	}
	edges := body["edges"].([]any)
	require.Len(t, edges, 1)
	assert.Equal(t, "Yes", edges[0].(map[string]any)["data"].(map[string]any)["label"])
}

func TestE2E_LoadNormalizesGoalStatus(t *testing.T) {
	s, fake := newRemoteStore(t)
	id := fake.Seed(map[string]any{
		"id":   "j-b",
		"name": "Remote",
		"goals": []any{
			map[string]any{"id": "g1", "title": "Close", "status": "completed"},
		},
	})

	require.Equal(t, StatusDone, s.LoadFromAPI(context.Background(), id).Status)

	g, ok := s.GetGoal("g1")
	require.True(t, ok)
	assert.Equal(t, domain.Tag(domain.GoalCompleted), g.Status)
	raw, err := json.Marshal(g.Status)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"completed"}`, string(raw))
}

func TestE2E_FullSaveUnwrapsStatusAndSkipsRepeat(t *testing.T) {
	s, fake := newRemoteStore(t)
	ctx := context.Background()
	_, err := s.CreateInAPI(ctx, "Retention", "desc")
	require.NoError(t, err)

	s.AddGoal(domain.GoalDraft{Title: "Reactivate", Status: domain.Tag(domain.GoalInProgress)})
	s.AddMilestone(domain.MilestoneDraft{Title: "Kickoff"})

	require.Equal(t, StatusDone, s.SaveToAPI(ctx).Status)
	before := len(fake.Calls())

	doc, ok := fake.Journey(s.ID())
	require.True(t, ok)
	goals := doc["goals"].([]any)
	require.Len(t, goals, 1)
	assert.Equal(t, "in-progress", goals[0].(map[string]any)["status"])
	assert.Equal(t, 1, fake.Count(http.MethodPost, "/save"))

	assert.Equal(t, StatusSkipped, s.SaveToAPI(ctx).Status)
	assert.Len(t, fake.Calls(), before)
}

func TestE2E_GoalSaveRetriesNetworkFailures(t *testing.T) {
	s, fake := newRemoteStore(t)
	ctx := context.Background()
	_, err := s.CreateInAPI(ctx, "Retry", "")
	require.NoError(t, err)
	s.AddGoal(domain.GoalDraft{Title: "g"})

	fake.Fail(http.MethodPost, "/goals", http.StatusServiceUnavailable, "network unreachable", 2)

	require.Equal(t, StatusDone, s.SaveGoalsToAPI(ctx).Status)
	assert.Equal(t, 3, fake.Count(http.MethodPost, "/goals"))
	assert.False(t, s.Tracking().ChangedGoals.Len() > 0)
}

func TestE2E_DuplicateAndDelete(t *testing.T) {
	s, fake := newRemoteStore(t)
	ctx := context.Background()
	_, err := s.CreateInAPI(ctx, "Original", "")
	require.NoError(t, err)
	original := s.ID()

	require.Equal(t, StatusDone, s.DuplicateInAPI(ctx, "Copy").Status)
	assert.NotEqual(t, original, s.ID())
	assert.Equal(t, "Copy", s.Journey().Name)

	list, o := s.ListFromAPI(ctx, domain.ListOptions{})
	require.True(t, o.OK())
	assert.Len(t, list, 2)

	require.Equal(t, StatusDone, s.DeleteFromAPI(ctx, false).Status)
	assert.Contains(t, fake.Calls()[len(fake.Calls())-1].Query, "hard_delete=false")
	_, ok := fake.Journey(original)
	assert.True(t, ok)
}

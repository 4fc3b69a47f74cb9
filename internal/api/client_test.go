package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	return NewClient(cfg, NoopObserver{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClient_SaveCanvas_DropsPositions(t *testing.T) {
	var body map[string][]map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/journeys/j1/canvas", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := c.SaveCanvas(context.Background(), "j1", domain.Canvas{
		Nodes: []domain.Node{{ID: "n1", Type: "journey", Subtype: domain.SubtypeEntry, Position: domain.Position{X: 10, Y: 20}}},
		Edges: []domain.Edge{{ID: "e1", Source: "n1", Target: "n2", Data: map[string]any{"label": "Yes"}}},
	})
	require.NoError(t, err)

	require.Len(t, body["nodes"], 1)
	assert.NotContains(t, body["nodes"][0], "position")
	assert.Equal(t, "entry", body["nodes"][0]["node-subtype"])
	require.Len(t, body["edges"], 1)
	assert.Equal(t, "Yes", body["edges"][0]["data"].(map[string]any)["label"])
}

func TestClient_LoadGoals_NormalizesStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/journeys/j1/goals", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"goals": []map[string]any{
				{"id": "g1", "title": "Bare", "status": "completed", "priority": "high", "createdAt": "2025-03-01T10:00:00"},
				{"id": "g2", "title": "Wrapped", "status": map[string]string{"value": "in-progress"}},
				{"id": "g3", "title": "Missing"},
			}},
		})
	})

	goals, err := c.LoadGoals(context.Background(), "j1")
	require.NoError(t, err)
	require.Len(t, goals, 3)

	assert.Equal(t, domain.Tag(domain.GoalCompleted), goals[0].Status)
	assert.Equal(t, domain.Tag(domain.PriorityHigh), goals[0].Priority)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), goals[0].CreatedAt)
	assert.Equal(t, domain.Tag(domain.GoalInProgress), goals[1].Status)
	assert.Equal(t, domain.Tag(domain.GoalActive), goals[2].Status)
	assert.Equal(t, domain.Tag(domain.PriorityMedium), goals[2].Priority)
}

func TestClient_SaveGoals_UnwrapsStatus(t *testing.T) {
	var raw []byte
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		raw = buf.Bytes()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := c.SaveGoals(context.Background(), "j1", []domain.Goal{{
		ID: "g1", Status: domain.Tag(domain.GoalActive), Priority: domain.Tag(domain.PriorityLow),
	}})
	require.NoError(t, err)

	var body struct {
		Goals []map[string]any `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "active", body.Goals[0]["status"])
	assert.Equal(t, "low", body.Goals[0]["priority"])
}

func TestClient_SaveMilestones_RederivesSortOrder(t *testing.T) {
	var body struct {
		Milestones []wireMilestone `json:"milestones"`
	}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := c.SaveMilestones(context.Background(), "j1", []domain.Milestone{
		{ID: "m3", SortOrder: 7}, {ID: "m1", SortOrder: 2},
	})
	require.NoError(t, err)
	require.Len(t, body.Milestones, 2)
	assert.Equal(t, 0, body.Milestones[0].SortOrder)
	assert.Equal(t, 1, body.Milestones[1].SortOrder)
}

func TestClient_HTTPErrorUsesDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Journey not found"})
	})

	_, err := c.GetJourney(context.Background(), "missing")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "Journey not found", httpErr.Message)
	assert.Contains(t, err.Error(), "Journey not found")
}

func TestClient_HTTPErrorFallsBackToStatusText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.SaveGoals(context.Background(), "j1", nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, err.Error(), "Bad Gateway")
}

func TestClient_RejectedEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Journey is locked"})
	})

	err := c.SaveCanvas(context.Background(), "j1", domain.Canvas{})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Journey is locked")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, TimeoutMs: 30}, nil)
	err := c.SaveGoals(context.Background(), "j1", nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", TimeoutMs: 2000}, nil)
	err := c.SaveGoals(context.Background(), "j1", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsNetworkError(err))
}

func TestClient_NoJourneyID(t *testing.T) {
	c := NewClient(DefaultConfig(), nil)
	assert.ErrorIs(t, c.SaveCanvas(context.Background(), "", domain.Canvas{}), ErrNoJourney)
	_, err := c.LoadMilestones(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoJourney)
}

func TestClient_DeleteAndDuplicateQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			assert.Equal(t, "true", r.URL.Query().Get("hard_delete"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		case http.MethodPost:
			assert.Equal(t, "/api/journeys/j1/duplicate", r.URL.Path)
			assert.Equal(t, "Copy of onboarding", r.URL.Query().Get("new_name"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"journey": map[string]any{"id": "j2", "name": "Copy of onboarding", "isEditable": true},
			})
		}
	})

	require.NoError(t, c.DeleteJourney(context.Background(), "j1", true))
	dup, err := c.DuplicateJourney(context.Background(), "j1", "Copy of onboarding")
	require.NoError(t, err)
	assert.Equal(t, "j2", dup.ID)
	assert.NotNil(t, dup.Nodes)
	assert.Equal(t, domain.LogicAnd, dup.GoalLogicOperator)
}

func TestClient_ListJourneysQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "u1", q.Get("user_id"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "", q.Get("offset"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"journeys": []map[string]any{{"id": "a", "name": "A"}, {"id": "b", "name": "B"}},
		})
	})

	list, err := c.ListJourneys(context.Background(), domain.ListOptions{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[1].Name)
}

func TestClient_GetStats(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/journeys/j1/stats", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"stats": map[string]int{"totalNodes": 4, "completedGoals": 1, "totalReports": 2}},
		})
	})

	stats, err := c.GetStats(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalNodes)
	assert.Equal(t, 1, stats.CompletedGoals)
	assert.Equal(t, 2, stats.TotalReports)
}

type recordingObserver struct{ events []CallEvent }

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func TestClient_ObserverReceivesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(Config{BaseURL: srv.URL}, obs)
	err := c.UpdateJourney(context.Background(), "j1", domain.JourneyPatch{})
	require.Error(t, err)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "update journey", obs.events[0].Op)
	assert.Equal(t, http.MethodPut, obs.events[0].Method)
	assert.Equal(t, 500, obs.events[0].Status)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "HTTP_500", obs.events[0].ErrorCode)
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, IsNetworkError(nil))
	assert.True(t, IsNetworkError(ErrUnavailable))
	assert.True(t, IsNetworkError(errors.New("Failed to fetch")))
	assert.True(t, IsNetworkError(errors.New("network is down")))
	assert.False(t, IsNetworkError(ErrRejected))
	assert.False(t, IsNetworkError(&HTTPError{Op: "save goals", StatusCode: 500, Status: "Internal Server Error"}))
}

func TestNewClient_TransportKeepsDefaults(t *testing.T) {
	c := NewClient(DefaultConfig(), nil)
	tr, ok := c.http.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy, "proxy from environment")
	assert.NotZero(t, tr.TLSHandshakeTimeout)
	assert.NotZero(t, tr.IdleConnTimeout)
	assert.NotNil(t, tr.DialContext)
}

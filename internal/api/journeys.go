package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

const journeysPath = "/api/journeys/"

func journeyPath(id string, suffix string) string {
	return journeysPath + url.PathEscape(id) + suffix
}

func (c *Client) CreateJourney(ctx context.Context, name, description string) (domain.Journey, error) {
	env, err := c.do(ctx, request{
		op:     "create journey",
		method: http.MethodPost,
		path:   journeysPath,
		body:   map[string]string{"name": name, "description": description},
	})
	if err != nil {
		return domain.Journey{}, err
	}
	return journeyFromEnvelope("create journey", env)
}

func (c *Client) GetJourney(ctx context.Context, id string) (domain.Journey, error) {
	if id == "" {
		return domain.Journey{}, ErrNoJourney
	}
	env, err := c.do(ctx, request{op: "load journey", method: http.MethodGet, path: journeyPath(id, "")})
	if err != nil {
		return domain.Journey{}, err
	}
	return journeyFromEnvelope("load journey", env)
}

// SaveJourney posts the full aggregate as a snapshot.
func (c *Client) SaveJourney(ctx context.Context, j domain.Journey) error {
	if j.ID == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "save journey",
		method: http.MethodPost,
		path:   journeyPath(j.ID, "/save"),
		body:   map[string]any{"journey": journeyToWire(j)},
	})
	return err
}

func (c *Client) SaveCanvas(ctx context.Context, id string, canvas domain.Canvas) error {
	if id == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "save canvas",
		method: http.MethodPost,
		path:   journeyPath(id, "/canvas"),
		body: map[string]any{
			"nodes": nodesToWire(canvas.Nodes),
			"edges": edgesOrEmpty(canvas.Edges),
		},
	})
	return err
}

func (c *Client) LoadCanvas(ctx context.Context, id string) (domain.Canvas, error) {
	if id == "" {
		return domain.Canvas{}, ErrNoJourney
	}
	env, err := c.do(ctx, request{op: "load canvas", method: http.MethodGet, path: journeyPath(id, "/canvas")})
	if err != nil {
		return domain.Canvas{}, err
	}
	var data struct {
		Nodes []wireNode    `json:"nodes"`
		Edges []domain.Edge `json:"edges"`
	}
	if err := decodeData("load canvas", env, &data); err != nil {
		return domain.Canvas{}, err
	}
	return domain.Canvas{Nodes: nodesFromWire(data.Nodes), Edges: edgesOrEmpty(data.Edges)}, nil
}

func (c *Client) SaveGoals(ctx context.Context, id string, goals []domain.Goal) error {
	if id == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "save goals",
		method: http.MethodPost,
		path:   journeyPath(id, "/goals"),
		body:   map[string]any{"goals": goalsToWire(goals)},
	})
	return err
}

func (c *Client) LoadGoals(ctx context.Context, id string) ([]domain.Goal, error) {
	if id == "" {
		return nil, ErrNoJourney
	}
	env, err := c.do(ctx, request{op: "load goals", method: http.MethodGet, path: journeyPath(id, "/goals")})
	if err != nil {
		return nil, err
	}
	var data struct {
		Goals []wireGoal `json:"goals"`
	}
	if err := decodeData("load goals", env, &data); err != nil {
		return nil, err
	}
	return goalsFromWire(data.Goals), nil
}

func (c *Client) SaveMilestones(ctx context.Context, id string, milestones []domain.Milestone) error {
	if id == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "save milestones",
		method: http.MethodPost,
		path:   journeyPath(id, "/milestones"),
		body:   map[string]any{"milestones": milestonesToWire(milestones)},
	})
	return err
}

func (c *Client) LoadMilestones(ctx context.Context, id string) ([]domain.Milestone, error) {
	if id == "" {
		return nil, ErrNoJourney
	}
	env, err := c.do(ctx, request{op: "load milestones", method: http.MethodGet, path: journeyPath(id, "/milestones")})
	if err != nil {
		return nil, err
	}
	var data struct {
		Milestones []wireMilestone `json:"milestones"`
	}
	if err := decodeData("load milestones", env, &data); err != nil {
		return nil, err
	}
	return milestonesFromWire(data.Milestones), nil
}

func (c *Client) UpdateJourney(ctx context.Context, id string, patch domain.JourneyPatch) error {
	if id == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "update journey",
		method: http.MethodPut,
		path:   journeyPath(id, ""),
		body:   patch,
	})
	return err
}

func (c *Client) DeleteJourney(ctx context.Context, id string, hard bool) error {
	if id == "" {
		return ErrNoJourney
	}
	_, err := c.do(ctx, request{
		op:     "delete journey",
		method: http.MethodDelete,
		path:   journeyPath(id, ""),
		query:  url.Values{"hard_delete": {strconv.FormatBool(hard)}},
	})
	return err
}

// DuplicateJourney copies id server-side. An empty newName lets the server
// choose one.
func (c *Client) DuplicateJourney(ctx context.Context, id, newName string) (domain.Journey, error) {
	if id == "" {
		return domain.Journey{}, ErrNoJourney
	}
	var query url.Values
	if newName != "" {
		query = url.Values{"new_name": {newName}}
	}
	env, err := c.do(ctx, request{
		op:     "duplicate journey",
		method: http.MethodPost,
		path:   journeyPath(id, "/duplicate"),
		query:  query,
	})
	if err != nil {
		return domain.Journey{}, err
	}
	return journeyFromEnvelope("duplicate journey", env)
}

func (c *Client) ListJourneys(ctx context.Context, opts domain.ListOptions) ([]domain.Journey, error) {
	query := url.Values{}
	if opts.UserID != "" {
		query.Set("user_id", opts.UserID)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	env, err := c.do(ctx, request{op: "list journeys", method: http.MethodGet, path: journeysPath, query: query})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Journey, len(env.Journeys))
	for i, w := range env.Journeys {
		out[i] = w.toDomain()
	}
	return out, nil
}

// GetStats fetches the server-side counters of a journey.
func (c *Client) GetStats(ctx context.Context, id string) (domain.Stats, error) {
	if id == "" {
		return domain.Stats{}, ErrNoJourney
	}
	env, err := c.do(ctx, request{op: "journey stats", method: http.MethodGet, path: journeyPath(id, "/stats")})
	if err != nil {
		return domain.Stats{}, err
	}
	var data struct {
		Stats domain.Stats `json:"stats"`
	}
	if err := decodeData("journey stats", env, &data); err != nil {
		return domain.Stats{}, err
	}
	return data.Stats, nil
}

func journeyFromEnvelope(op string, env *envelope) (domain.Journey, error) {
	if env.Journey == nil {
		return domain.Journey{}, rejection(op, op+" returned no journey")
	}
	return env.Journey.toDomain(), nil
}

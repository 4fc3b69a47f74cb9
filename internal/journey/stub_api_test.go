package journey

import (
	"context"
	"sync"

	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/testutil"
)

// stubAPI records calls and delegates to optional hooks. Unset hooks succeed.
type stubAPI struct {
	mu    sync.Mutex
	calls map[string]int

	saveCanvas     func(ctx context.Context, id string, c domain.Canvas) error
	saveGoals      func(ctx context.Context, id string, g []domain.Goal) error
	saveMilestones func(ctx context.Context, id string, m []domain.Milestone) error
	saveJourney    func(ctx context.Context, j domain.Journey) error
	createJourney  func(ctx context.Context, name, desc string) (domain.Journey, error)
	getJourney     func(ctx context.Context, id string) (domain.Journey, error)
	deleteJourney  func(ctx context.Context, id string, hard bool) error
	updateJourney  func(ctx context.Context, id string, p domain.JourneyPatch) error
}

func newStubAPI() *stubAPI { return &stubAPI{calls: map[string]int{}} }

func (a *stubAPI) record(op string) {
	a.mu.Lock()
	a.calls[op]++
	a.mu.Unlock()
}

func (a *stubAPI) count(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

func (a *stubAPI) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		n += c
	}
	return n
}

func (a *stubAPI) CreateJourney(ctx context.Context, name, description string) (domain.Journey, error) {
	a.record("create")
	if a.createJourney != nil {
		return a.createJourney(ctx, name, description)
	}
	j := domain.EmptyJourney(testutil.FixedNow)
	j.ID, j.Name, j.Description = "srv-1", name, description
	return j, nil
}

func (a *stubAPI) GetJourney(ctx context.Context, id string) (domain.Journey, error) {
	a.record("get")
	if a.getJourney != nil {
		return a.getJourney(ctx, id)
	}
	return domain.Journey{ID: id}, nil
}

func (a *stubAPI) SaveJourney(ctx context.Context, j domain.Journey) error {
	a.record("save_journey")
	if a.saveJourney != nil {
		return a.saveJourney(ctx, j)
	}
	return nil
}

func (a *stubAPI) SaveCanvas(ctx context.Context, id string, c domain.Canvas) error {
	a.record("save_canvas")
	if a.saveCanvas != nil {
		return a.saveCanvas(ctx, id, c)
	}
	return nil
}

func (a *stubAPI) LoadCanvas(context.Context, string) (domain.Canvas, error) {
	a.record("load_canvas")
	return domain.Canvas{}, nil
}

func (a *stubAPI) SaveGoals(ctx context.Context, id string, g []domain.Goal) error {
	a.record("save_goals")
	if a.saveGoals != nil {
		return a.saveGoals(ctx, id, g)
	}
	return nil
}

func (a *stubAPI) LoadGoals(context.Context, string) ([]domain.Goal, error) {
	a.record("load_goals")
	return nil, nil
}

func (a *stubAPI) SaveMilestones(ctx context.Context, id string, m []domain.Milestone) error {
	a.record("save_milestones")
	if a.saveMilestones != nil {
		return a.saveMilestones(ctx, id, m)
	}
	return nil
}

func (a *stubAPI) LoadMilestones(context.Context, string) ([]domain.Milestone, error) {
	a.record("load_milestones")
	return nil, nil
}

func (a *stubAPI) UpdateJourney(ctx context.Context, id string, p domain.JourneyPatch) error {
	a.record("update")
	if a.updateJourney != nil {
		return a.updateJourney(ctx, id, p)
	}
	return nil
}

func (a *stubAPI) DeleteJourney(ctx context.Context, id string, hard bool) error {
	a.record("delete")
	if a.deleteJourney != nil {
		return a.deleteJourney(ctx, id, hard)
	}
	return nil
}

func (a *stubAPI) DuplicateJourney(_ context.Context, id, newName string) (domain.Journey, error) {
	a.record("duplicate")
	j := domain.Journey{ID: id + "-copy", Name: newName, Reports: []domain.Report{{ID: "r1"}}}
	return j, nil
}

func (a *stubAPI) ListJourneys(context.Context, domain.ListOptions) ([]domain.Journey, error) {
	a.record("list")
	return []domain.Journey{{ID: "a"}, {ID: "b"}}, nil
}

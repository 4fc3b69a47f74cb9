package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// APICall is one request received by FakeAPI.
type APICall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// FakeAPI is an in-memory journeys REST server. Journeys are kept in their
// wire form so tests can assert on exactly what was uploaded.
type FakeAPI struct {
	URL string

	mu       sync.Mutex
	calls    []APICall
	journeys map[string]map[string]any
	order    []string
	failures map[string]*injectedFailure
	seq      int
}

type injectedFailure struct {
	status  int
	message string
	times   int // negative fails forever
}

// NewFakeAPI starts a FakeAPI that is shut down when the test completes.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		journeys: map[string]map[string]any{},
		failures: map[string]*injectedFailure{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// Seed stores a journey document in wire form and returns its id.
func (f *FakeAPI) Seed(doc map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := doc["id"].(string)
	if id == "" {
		f.seq++
		id = fmt.Sprintf("srv-%d", f.seq)
		doc["id"] = id
	}
	f.put(id, doc)
	return id
}

// Journey returns the stored wire document for id.
func (f *FakeAPI) Journey(id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.journeys[id]
	return doc, ok
}

// Fail makes the next times requests matching method and path suffix fail
// with status. A negative times fails forever.
func (f *FakeAPI) Fail(method, suffix string, status int, message string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+suffix] = &injectedFailure{status: status, message: message, times: times}
}

func (f *FakeAPI) Calls() []APICall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]APICall(nil), f.calls...)
}

// Count returns how many requests matched method and path suffix.
func (f *FakeAPI) Count(method, suffix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && strings.HasSuffix(c.Path, suffix) {
			n++
		}
	}
	return n
}

func (f *FakeAPI) put(id string, doc map[string]any) {
	if _, ok := f.journeys[id]; !ok {
		f.order = append(f.order, id)
	}
	f.journeys[id] = doc
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, APICall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})

	for key, fail := range f.failures {
		method, suffix, _ := strings.Cut(key, " ")
		if method != r.Method || !strings.HasSuffix(r.URL.Path, suffix) || fail.times == 0 {
			continue
		}
		if fail.times > 0 {
			fail.times--
		}
		reply(w, fail.status, map[string]any{"success": false, "detail": fail.message})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/journeys")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			list := make([]map[string]any, 0, len(f.order))
			for _, id := range f.order {
				list = append(list, f.journeys[id])
			}
			reply(w, http.StatusOK, map[string]any{"success": true, "journeys": list})
		case http.MethodPost:
			f.seq++
			now := time.Now().UTC().Format(time.RFC3339Nano)
			doc := map[string]any{
				"id": fmt.Sprintf("srv-%d", f.seq), "name": body["name"], "description": body["description"],
				"createdAt": now, "updatedAt": now,
				"nodes": []any{}, "edges": []any{}, "goals": []any{}, "milestones": []any{}, "reports": []any{},
			}
			f.put(doc["id"].(string), doc)
			reply(w, http.StatusOK, map[string]any{"success": true, "journey": doc})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, sub, _ := strings.Cut(rest, "/")
	doc, ok := f.journeys[id]
	if !ok {
		reply(w, http.StatusNotFound, map[string]any{"detail": "Journey not found"})
		return
	}

	switch r.Method + " " + sub {
	case "GET ":
		reply(w, http.StatusOK, map[string]any{"success": true, "journey": doc})
	case "PUT ":
		for k, v := range body {
			doc[k] = v
		}
		reply(w, http.StatusOK, map[string]any{"success": true, "journey": doc})
	case "DELETE ":
		delete(f.journeys, id)
		for i, o := range f.order {
			if o == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
		reply(w, http.StatusOK, map[string]any{"success": true, "message": "Journey deleted"})
	case "POST save":
		if j, ok := body["journey"].(map[string]any); ok {
			j["id"] = id
			f.journeys[id] = j
		}
		reply(w, http.StatusOK, map[string]any{"success": true})
	case "POST duplicate":
		f.seq++
		dup := make(map[string]any, len(doc))
		for k, v := range doc {
			dup[k] = v
		}
		dup["id"] = fmt.Sprintf("srv-%d", f.seq)
		if name := r.URL.Query().Get("new_name"); name != "" {
			dup["name"] = name
		} else {
			dup["name"] = fmt.Sprintf("%v (Copy)", doc["name"])
		}
		f.put(dup["id"].(string), dup)
		reply(w, http.StatusOK, map[string]any{"success": true, "journey": dup})
	case "POST canvas":
		doc["nodes"], doc["edges"] = body["nodes"], body["edges"]
		reply(w, http.StatusOK, map[string]any{"success": true})
	case "GET canvas":
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"nodes": doc["nodes"], "edges": doc["edges"]}})
	case "POST goals":
		doc["goals"] = body["goals"]
		reply(w, http.StatusOK, map[string]any{"success": true})
	case "GET goals":
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"goals": doc["goals"]}})
	case "POST milestones":
		doc["milestones"] = body["milestones"]
		reply(w, http.StatusOK, map[string]any{"success": true})
	case "GET milestones":
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"milestones": doc["milestones"]}})
	case "GET stats":
		reply(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"stats": map[string]any{
			"totalNodes": length(doc["nodes"]), "totalEdges": length(doc["edges"]),
			"totalGoals": length(doc["goals"]), "totalMilestones": length(doc["milestones"]),
		}}})
	default:
		reply(w, http.StatusNotFound, map[string]any{"detail": "Not Found"})
	}
}

func length(v any) int {
	s, _ := v.([]any)
	return len(s)
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

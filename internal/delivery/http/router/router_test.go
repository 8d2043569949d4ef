package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/extraction-service/internal/adapter/memory"
	"github.com/user/extraction-service/internal/delivery/http/handler"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
	"github.com/user/extraction-service/internal/usecase"
	"go.uber.org/zap"
)

type stubExtractor struct {
	mu     sync.Mutex
	result entity.Result
	calls  []string
	done   chan struct{}
}

func (s *stubExtractor) ProcessURL(_ context.Context, url, extractionID string) entity.Result {
	s.mu.Lock()
	s.calls = append(s.calls, url+"#"+extractionID)
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
	return s.result
}

type stubStatusRepo struct{ rows map[string]string }

func (s *stubStatusRepo) InitializeEntry(context.Context, string) error       { return nil }
func (s *stubStatusRepo) UpdateStatus(context.Context, string, string) error { return nil }
func (s *stubStatusRepo) FindByURL(_ context.Context, url string) (*entity.ExtractionStatus, error) {
	st, ok := s.rows[url]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.ExtractionStatus{URL: url, Status: st}, nil
}

type stubDataRepo struct{}

func (stubDataRepo) Save(context.Context, *entity.ExtractedData) error { return nil }
func (stubDataRepo) FindByURL(context.Context, string) (*entity.ExtractedData, error) {
	return nil, repository.ErrNotFound
}

type testServer struct {
	srv       *httptest.Server
	extractor *stubExtractor
	states    *memory.StateRegistry
	handler   *handler.Handler
}

func newTestServer(t *testing.T, checks map[string]handler.HealthCheck) *testServer {
	t.Helper()
	ts := &testServer{
		extractor: &stubExtractor{result: entity.Result{Success: true, Data: &entity.ExtractedData{CompanyName: "Acme"}}},
		states:    memory.NewStateRegistry(),
	}
	status := &stubStatusRepo{rows: map[string]string{"https://acme.example.com": entity.StatusCompleted}}
	controller := usecase.NewController(ts.states, status, stubDataRepo{}, nil)
	ts.handler = handler.NewHandler(ts.extractor, controller, checks, zap.NewNop())
	ts.srv = httptest.NewServer(New(ts.handler, zap.NewNop()))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestProcessURL_Sync(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodPost, "/api/extractions", `{"url":"https://acme.example.com","extraction_id":"e1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var res entity.Result
	decode(t, resp, &res)
	if !res.Success || res.Data == nil || res.Data.CompanyName != "Acme" {
		t.Errorf("result: %+v", res)
	}
	if len(ts.extractor.calls) != 1 || ts.extractor.calls[0] != "https://acme.example.com#e1" {
		t.Errorf("calls: %v", ts.extractor.calls)
	}
}

func TestProcessURL_FailedResult(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.extractor.result = entity.Result{Success: false, Error: "Invalid URL format"}

	resp := ts.do(t, http.MethodPost, "/api/extractions", `{"url":"nope"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var res entity.Result
	decode(t, resp, &res)
	if res.Success || res.Error != "Invalid URL format" {
		t.Errorf("result: %+v", res)
	}
}

func TestProcessURL_BadBody(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := ts.do(t, http.MethodPost, "/api/extractions", `{`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
}

func TestProcessURL_Async(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.extractor.done = make(chan struct{})

	resp := ts.do(t, http.MethodPost, "/api/extractions", `{"url":"https://acme.example.com","async":true}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body struct {
		ExtractionID string `json:"extraction_id"`
	}
	decode(t, resp, &body)
	if body.ExtractionID == "" {
		t.Fatal("async request should be given an extraction id")
	}

	select {
	case <-ts.extractor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("async extraction never ran")
	}
	ts.handler.Wait()
}

func TestProcessURL_DuplicateID(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.states.Create(context.Background(), &entity.ExtractionState{ExtractionID: "busy"})

	resp := ts.do(t, http.MethodPost, "/api/extractions", `{"url":"https://acme.example.com","extraction_id":"busy"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if len(ts.extractor.calls) != 0 {
		t.Error("extraction should not start")
	}
}

func TestProgressAndControls(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.states.Create(context.Background(), &entity.ExtractionState{
		ExtractionID: "e2", URL: "https://acme.example.com", Progress: 10, Stage: entity.StageStartingExtraction,
	})

	resp := ts.do(t, http.MethodGet, "/api/extractions/e2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress status: got %d", resp.StatusCode)
	}
	var p struct {
		Progress int    `json:"progress"`
		Stage    string `json:"stage"`
		Paused   bool   `json:"paused"`
	}
	decode(t, resp, &p)
	if p.Progress != 10 || p.Stage != entity.StageStartingExtraction {
		t.Errorf("progress: %+v", p)
	}

	for _, action := range []string{"pause", "resume", "stop"} {
		if resp := ts.do(t, http.MethodPost, "/api/extractions/e2/"+action, ""); resp.StatusCode != http.StatusNoContent {
			t.Errorf("%s: got %d", action, resp.StatusCode)
		}
	}
	s, _ := ts.states.Get(context.Background(), "e2")
	if s.Paused || !s.Stopped {
		t.Errorf("flags: paused=%v stopped=%v", s.Paused, s.Stopped)
	}

	if resp := ts.do(t, http.MethodGet, "/api/extractions/missing", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing progress: got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPost, "/api/extractions/missing/pause", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing pause: got %d", resp.StatusCode)
	}
}

func TestListLogs_NoRepository(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := ts.do(t, http.MethodGet, "/api/extractions/e3/logs", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var logs []interface{}
	decode(t, resp, &logs)
	if len(logs) != 0 {
		t.Errorf("logs: %v", logs)
	}
}

func TestGetStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := ts.do(t, http.MethodGet, "/api/status?url=https://acme.example.com", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var s struct {
		Status string `json:"status"`
	}
	decode(t, resp, &s)
	if s.Status != entity.StatusCompleted {
		t.Errorf("status: got %q", s.Status)
	}

	if resp := ts.do(t, http.MethodGet, "/api/status?url=https://other.example.com", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown url: got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/api/status", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing param: got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/api/data?url=https://acme.example.com", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("data: got %d", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, map[string]handler.HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("down") },
	})

	resp := ts.do(t, http.MethodGet, "/api/health", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["postgres"] != "healthy" || body["redis"] != "unhealthy" {
		t.Errorf("body: %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/health", "")

	resp := ts.do(t, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/logging"
	"mdxport/internal/testsupport"
)

type staticSource struct {
	snap export.Snapshot
}

func (s staticSource) Status() export.Snapshot { return s.snap }

func newTestServer(t *testing.T, source StatusSource, store *history.Store) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Bind:      "127.0.0.1:0",
		Version:   "test",
		Scheduler: source,
		Store:     store,
		Logger:    logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = srv.listener.Close()
	})
	return srv
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rr := httptest.NewRecorder()
	srv.routes(ServerConfig{Version: "test"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	decodeBody(t, rr, &resp)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Fatalf("unexpected health response: %#v", resp)
	}
}

func TestStatusEndpointReflectsScheduler(t *testing.T) {
	source := staticSource{snap: export.Snapshot{
		RunID:       "run-7",
		Status:      export.StatusEncoding,
		Phase:       "recording",
		Progress:    0.25,
		Frame:       75,
		TotalFrames: 300,
	}}
	srv := newTestServer(t, source, nil)

	rr := httptest.NewRecorder()
	srv.routes(ServerConfig{Scheduler: source}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp ExportStatus
	decodeBody(t, rr, &resp)
	if resp.RunID != "run-7" || resp.Status != "encoding" || resp.Frame != 75 {
		t.Fatalf("unexpected status response: %#v", resp)
	}
}

func TestStatusEndpointWithoutSchedulerReportsIdle(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rr := httptest.NewRecorder()
	srv.routes(ServerConfig{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp ExportStatus
	decodeBody(t, rr, &resp)
	if resp.Status != "idle" {
		t.Fatalf("expected idle status, got %#v", resp)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, id := range []string{"run-1", "run-2"} {
		err := store.StartRun(ctx, history.Run{
			RunID:     id,
			Mode:      "buffered",
			Status:    "rendering",
			Format:    "mp4",
			Codec:     "h264",
			StartedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("StartRun: %v", err)
		}
	}

	srv := newTestServer(t, nil, store)

	rr := httptest.NewRecorder()
	srv.routes(ServerConfig{Store: store}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?limit=1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HistoryResponse
	decodeBody(t, rr, &resp)
	if len(resp.Runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(resp.Runs))
	}
}

func TestHistoryEndpointRejectsBadLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	srv := newTestServer(t, nil, store)

	rr := httptest.NewRecorder()
	srv.routes(ServerConfig{Store: store}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?limit=zero", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != "INVALID_LIMIT" {
		t.Fatalf("unexpected error response: %#v", resp)
	}
}

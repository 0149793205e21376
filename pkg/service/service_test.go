package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/graphdraw/graphdraw/pkg/pipeline"
	"github.com/graphdraw/graphdraw/pkg/store"
)

const testDocument = `
name = "square"

[options]
"algorithm" = "simple necklace"

[[edge]]
from = "a"
to = "b"

[[edge]]
from = "b"
to = "c"

[[edge]]
from = "c"
to = "d"

[[edge]]
from = "d"
to = "a"
`

func newTestService() *Service {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	return New(Config{}, runner, store.NewMemoryStore(), log.New(io.Discard))
}

func postLayout(t *testing.T, srv http.Handler, req LayoutRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewReader(body)))
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestService().Router()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestService().Router()

	rec := postLayout(t, srv, LayoutRequest{
		Document:   testDocument,
		SourceName: "square.toml",
		Formats:    []string{"dot", "json"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/layout = %d: %s", rec.Code, rec.Body)
	}

	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" || resp.GraphHash == "" {
		t.Errorf("missing run metadata: %+v", resp)
	}
	if len(resp.Snapshot.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(resp.Snapshot.Positions))
	}
	if len(resp.Artifacts["dot"]) == 0 || len(resp.Artifacts["json"]) == 0 {
		t.Errorf("missing artifacts: %v", resp.Artifacts)
	}
}

func TestLayoutEndpointRejectsBadInput(t *testing.T) {
	srv := newTestService().Router()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewBufferString("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec.Code)
	}

	rec = postLayout(t, srv, LayoutRequest{Document: testDocument, Formats: []string{"gif"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format = %d, want 400: %s", rec.Code, rec.Body)
	}

	rec = postLayout(t, srv, LayoutRequest{
		Document:  testDocument,
		Formats:   []string{"dot"},
		Overrides: map[string]any{"algorithm": "no such layout"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown algorithm = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestLayoutPersistence(t *testing.T) {
	srv := newTestService().Router()

	rec := postLayout(t, srv, LayoutRequest{
		Document: testDocument,
		Formats:  []string{"dot"},
		SaveAs:   "square",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body)
	}
	var resp LayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.LayoutID == "" {
		t.Fatal("save_as did not return a layout id")
	}

	// Saving the same name again conflicts.
	rec = postLayout(t, srv, LayoutRequest{Document: testDocument, Formats: []string{"dot"}, SaveAs: "square"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate save = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/"+resp.LayoutID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET layout = %d", rec.Code)
	}
	var got store.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "square" || len(got.Positions) != 4 {
		t.Errorf("stored layout = %+v", got)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET layouts = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/layouts/"+resp.LayoutID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/"+resp.LayoutID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted layout = %d, want 404", rec.Code)
	}
}

package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
	"github.com/graphdraw/graphdraw/pkg/store"
)

// maxDocumentSize bounds posted graph documents.
const maxDocumentSize = 4 << 20

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	// Document is the graph document source (TOML or JSON).
	Document string `json:"document"`

	// SourceName labels the document and selects the decoder by
	// extension.
	SourceName string `json:"source_name,omitempty"`

	Profile   string         `json:"profile,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty"`
	Formats   []string       `json:"formats,omitempty"`
	Detailed  bool           `json:"detailed,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`

	// SaveAs persists the result under the given layout name.
	SaveAs string `json:"save_as,omitempty"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	RunID     string             `json:"run_id"`
	GraphHash string             `json:"graph_hash"`
	LayoutID  string             `json:"layout_id,omitempty"`
	Snapshot  *pipeline.Snapshot `json:"snapshot"`
	Artifacts map[string][]byte  `json:"artifacts"`
	Stats     statsResponse      `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

type statsResponse struct {
	Vertices   int           `json:"vertices"`
	Edges      int           `json:"edges"`
	ParseTime  time.Duration `json:"parse_time_ns"`
	LayoutTime time.Duration `json:"layout_time_ns"`
	RenderTime time.Duration `json:"render_time_ns"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	body := http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gderrors.New(gderrors.ErrCodeInvalidDocument, "decode request: %v", err))
		return
	}

	opts := pipeline.Options{
		Source:     []byte(req.Document),
		SourceName: req.SourceName,
		Profile:    req.Profile,
		Overrides:  req.Overrides,
		Formats:    req.Formats,
		Detailed:   req.Detailed,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := LayoutResponse{
		RunID:     result.RunID,
		GraphHash: result.GraphHash,
		Snapshot:  result.Snapshot,
		Artifacts: result.Artifacts,
		Cache:     result.CacheInfo,
		Stats: statsResponse{
			Vertices:   result.Stats.VertexCount,
			Edges:      result.Stats.EdgeCount,
			ParseTime:  result.Stats.ParseTime,
			LayoutTime: result.Stats.LayoutTime,
			RenderTime: result.Stats.RenderTime,
		},
	}

	if req.SaveAs != "" {
		l := storedLayout(req, result)
		if err := s.store.Put(r.Context(), l); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		resp.LayoutID = l.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, layouts)
}

func (s *Service) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Service) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func storedLayout(req LayoutRequest, result *pipeline.Result) *store.Layout {
	l := &store.Layout{
		Name:     req.SaveAs,
		Document: []byte(req.Document),
		Options:  result.Root.Options,
	}
	for name, p := range result.Snapshot.Positions {
		l.Positions = append(l.Positions, store.Position{Vertex: name, X: p[0], Y: p[1]})
	}
	return l
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateName):
		return http.StatusConflict
	}
	switch gderrors.GetCode(err) {
	case gderrors.ErrCodeInvalidOption, gderrors.ErrCodeInvalidDocument,
		gderrors.ErrCodeInvalidFormat, gderrors.ErrCodeInvalidGraph,
		gderrors.ErrCodeAlgorithmSelection:
		return http.StatusBadRequest
	case gderrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := string(gderrors.GetCode(err))
	if code == "" {
		code = "ERROR"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: gderrors.UserMessage(err)})
}

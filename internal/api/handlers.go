package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castdeck/castdeck/pkg/errors"
	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/render"
	"github.com/castdeck/castdeck/pkg/workspace"
)

// layoutResponse is the full client-visible workspace state.
type layoutResponse struct {
	Nodes          []*workspace.Node   `json:"nodes"`
	ExpandedNodeID string              `json:"expandedNodeId,omitempty"`
	Viewport       *workspace.Viewport `json:"viewport,omitempty"`

	// Headers carries per-node preview header metadata, keyed by node
	// id, when a render bridge is attached.
	Headers map[string]workspace.PreviewHeader `json:"headers,omitempty"`
}

type addCardRequest struct {
	Kind string `json:"kind"`
}

type addCardResponse struct {
	Node workspace.Node `json:"node"`
	// Created is false when the kind already existed and the existing
	// card was fronted instead.
	Created bool `json:"created"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type viewportRequest struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Zoom          float64 `json:"zoom"`
	VisibleWidth  float64 `json:"visibleWidth"`
	VisibleHeight float64 `json:"visibleHeight"`
}

type kindInfo struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	resp := s.layoutSnapshot()
	if s.mirror != nil && s.mirror.Ready() {
		vp := s.mirror.Viewport()
		resp.Viewport = &vp
	} else if s.initialVP != nil {
		resp.Viewport = s.initialVP
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	kinds := workspace.StaticKinds()
	infos := make([]kindInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, kindInfo{Kind: string(k), Title: workspace.Title(k)})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req addCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, ok := workspace.ParseKind(req.Kind)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidKind, "unknown card kind %q", req.Kind))
		return
	}

	node, created := s.store.AddCard(r.Context(), kind)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, addCardResponse{Node: node, Created: created})
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	disconnect := r.URL.Query().Get("disconnect") == "true"
	if !s.store.RemoveCard(r.Context(), id, disconnect) {
		writeError(w, errors.New(errors.ErrCodeCardNotFound, "no card with id %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBringToFront(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Node(id); !ok {
		writeError(w, errors.New(errors.ErrCodeCardNotFound, "no card with id %q", id))
		return
	}
	s.store.BringToFront(r.Context(), id)
	writeJSON(w, http.StatusOK, s.layoutSnapshot())
}

func (s *Server) handleToggleExpand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Node(id); !ok {
		writeError(w, errors.New(errors.ErrCodeCardNotFound, "no card with id %q", id))
		return
	}
	s.store.ToggleExpand(r.Context(), id, false)
	writeJSON(w, http.StatusOK, s.layoutSnapshot())
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.store.MoveCard(r.Context(), id, req.X, req.Y) {
		if _, ok := s.store.Node(id); !ok {
			writeError(w, errors.New(errors.ErrCodeCardNotFound, "no card with id %q", id))
			return
		}
	}
	node, _ := s.store.Node(id)
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleResizeCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req resizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.store.ResizeCard(r.Context(), id, req.Width, req.Height) {
		if _, ok := s.store.Node(id); !ok {
			writeError(w, errors.New(errors.ErrCodeCardNotFound, "no card with id %q", id))
			return
		}
	}
	node, _ := s.store.Node(id)
	writeJSON(w, http.StatusOK, node)
}

// handleSyncViewport mirrors the client canvas state. The client calls
// this on pan and zoom end, not per frame, so each sync also persists.
func (s *Server) handleSyncViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.mirror == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no viewport mirror configured"))
		return
	}
	s.mirror.Update(
		workspace.Viewport{X: req.X, Y: req.Y, Zoom: req.Zoom},
		geometry.Size{Width: req.VisibleWidth, Height: req.VisibleHeight},
	)
	s.store.PersistViewport(r.Context())
	vp := s.mirror.Viewport()
	writeJSON(w, http.StatusOK, vp)
}

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	opts := []render.SVGOption{}
	if r.URL.Query().Get("theme") == "dark" {
		opts = append(opts, render.WithDarkTheme())
	}
	if s.mirror != nil && s.mirror.Ready() {
		opts = append(opts, render.WithViewportFrame(s.mirror.Viewport(), s.mirror.VisibleSize()))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(render.RenderSVG(s.store.Nodes(), opts...))
}

func (s *Server) layoutSnapshot() layoutResponse {
	resp := layoutResponse{
		Nodes:          s.store.Nodes(),
		ExpandedNodeID: s.store.ExpandedID(),
	}
	if s.bridge != nil {
		for _, n := range resp.Nodes {
			if hdr, ok := s.bridge.Header(n.Kind); ok {
				if resp.Headers == nil {
					resp.Headers = make(map[string]workspace.PreviewHeader)
				}
				resp.Headers[n.ID] = hdr
			}
		}
	}
	return resp
}

// ============================================================================
// JSON helpers
// ============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *errors.Error) {
	writeJSON(w, statusFor(err.Code), errorEnvelope{Error: errorBody{
		Code:    err.Code,
		Message: err.Message,
	}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidKind, errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeCardNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode request body"))
		return false
	}
	return true
}

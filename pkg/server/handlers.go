package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gtreader/pkg/buildinfo"
	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/graph"
	"github.com/matzehuels/gtreader/pkg/gt"
	"github.com/matzehuels/gtreader/pkg/httputil"
	gtio "github.com/matzehuels/gtreader/pkg/io"
	"github.com/matzehuels/gtreader/pkg/pipeline"
	"github.com/matzehuels/gtreader/pkg/source"
)

type graphResponse struct {
	*entry
	Summary gt.Summary `json:"summary"`
}

func newGraphResponse(e *entry) graphResponse {
	return graphResponse{entry: e, Summary: e.graph.Summary()}
}

// health handles GET /healthz
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"graphs": s.reg.len(),
	})
}

// createGraph handles POST /graphs
func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{Strict: s.cfg.Strict}
	if v := q.Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid strict value %q", v))
			return
		}
		opts.Strict = strict
	}

	ref := q.Get("source")
	if ref == "" {
		ref = q.Get("url")
	}
	if ref != "" {
		kind, _, err := source.ParseRef(ref)
		if err != nil {
			s.respondError(w, err)
			return
		}
		if kind == source.KindFile {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "local paths are not accepted; use a URL or ns: reference"))
			return
		}
		opts.Source = ref
	} else {
		body, err := httputil.ReadLimited(r.Body, s.cfg.MaxUploadBytes)
		if stderrors.Is(err, httputil.ErrTooLarge) {
			s.respondError(w, errors.Wrap(errors.ErrCodeTooLarge, err, "request body exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		if err != nil {
			s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
			return
		}
		if len(body) == 0 {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "empty body; send gt bytes or set ?source="))
			return
		}
		opts.Source = "upload"
		opts.Data = body
	}

	res, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	e := s.reg.add(opts.Source, res.Hash, res.Graph)
	s.logger.Info("graph loaded", "id", e.ID, "source", e.Source, "vertices", res.Graph.VertexCount())
	s.respondJSON(w, http.StatusCreated, newGraphResponse(e))
}

// listGraphs handles GET /graphs
func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	entries := s.reg.list()
	out := make([]graphResponse, len(entries))
	for i, e := range entries {
		out[i] = newGraphResponse(e)
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"graphs": out})
}

// getGraph handles GET /graphs/{id}
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	if e, ok := s.lookup(w, r); ok {
		s.respondJSON(w, http.StatusOK, newGraphResponse(e))
	}
}

// deleteGraph handles DELETE /graphs/{id}
func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.reg.remove(id) {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "graph %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// edges handles GET /graphs/{id}/edges
func (s *Server) edges(w http.ResponseWriter, r *http.Request) {
	if e, ok := s.lookup(w, r); ok {
		s.respondJSON(w, http.StatusOK, map[string]any{"edges": e.graph.Edges()})
	}
}

// outNeighbors handles GET /graphs/{id}/vertices/{v}/out
func (s *Server) outNeighbors(w http.ResponseWriter, r *http.Request) {
	s.neighbors(w, r, (*graph.Graph).OutNeighbors)
}

// inNeighbors handles GET /graphs/{id}/vertices/{v}/in
func (s *Server) inNeighbors(w http.ResponseWriter, r *http.Request) {
	s.neighbors(w, r, (*graph.Graph).InNeighbors)
}

func (s *Server) neighbors(w http.ResponseWriter, r *http.Request, fn func(*graph.Graph, uint64) ([]uint64, error)) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "v")
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid vertex %q", raw))
		return
	}
	ns, err := fn(e.graph, v)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if ns == nil {
		ns = []uint64{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"vertex": v, "neighbors": ns})
}

// properties handles GET /graphs/{id}/properties
func (s *Server) properties(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	filter, ok := s.mapFilter(w, r)
	if !ok {
		return
	}
	out := []gt.PropertyInfo{}
	for _, p := range e.graph.Properties() {
		if filter.Match(p.MapType()) {
			out = append(out, p.Info())
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"properties": out})
}

// property handles GET /graphs/{id}/properties/{name}
func (s *Server) property(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	filter, ok := s.mapFilter(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	p, found := e.graph.Property(name, filter)
	if !found {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "no %s property named %q", filter, name))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"property": p.Info(),
		"values":   gtio.PropertyValues(p),
	})
}

// export handles GET /graphs/{id}/export
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts := pipeline.RenderOptions{
		Format:      q.Get("format"),
		VertexLabel: q.Get("vertex_label"),
		EdgeLabel:   q.Get("edge_label"),
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(opts.Format); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error()))
		return
	}
	data, err := pipeline.Render(r.Context(), e.graph, opts)
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format))
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// listCatalog handles GET /catalog
func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	if s.runner.Catalog == nil {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "catalog is disabled"))
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.runner.Catalog.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"records": recs})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := chi.URLParam(r, "id")
	e, ok := s.reg.get(id)
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "graph %s not found", id))
	}
	return e, ok
}

func (s *Server) mapFilter(w http.ResponseWriter, r *http.Request) (gt.MapFilter, bool) {
	filter, err := gt.ParseMapFilter(r.URL.Query().Get("map"))
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error()))
		return filter, false
	}
	return filter, true
}

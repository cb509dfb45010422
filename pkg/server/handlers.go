package server

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/editor"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/render/sink"
	"github.com/matzehuels/arbor/pkg/store"
	"github.com/matzehuels/arbor/pkg/tree"
)

// =============================================================================
// Documents
// =============================================================================

type createRequest struct {
	Name string `json:"name"`
	// Tree is an optional initial tree in import form; ids are regenerated.
	Tree json.RawMessage `json:"tree,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ed := editor.New()
	if len(req.Tree) > 0 && string(req.Tree) != "null" {
		if err := ed.Import(req.Tree, tree.FormatJSON); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if _, err := ed.Layout(s.cfg.Layout); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := store.NewDocument(req.Name, ed.Export())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/documents/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Import / export
// =============================================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := tree.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = tree.ParseFormat(q); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	data, err := tree.Encode(doc.Tree, format)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode tree"))
		return
	}
	w.Header().Set("Content-Type", contentTypeOf(format))
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	format := formatOf(r.Header.Get("Content-Type"))

	doc, err := s.mutate(r.Context(), chi.URLParam(r, "id"), func(ed *editor.Document) error {
		return ed.Import(data, format)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func formatOf(contentType string) tree.Format {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return tree.FormatYAML
	default:
		return tree.FormatJSON
	}
}

func contentTypeOf(f tree.Format) string {
	if f == tree.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// =============================================================================
// Nodes
// =============================================================================

type nodeResponse struct {
	ID int `json:"id"`
}

type patchRequest struct {
	Text *string `json:"text,omitempty"`
	// Highlight is left untouched when absent and cleared when null.
	Highlight json.RawMessage `json:"highlight,omitempty"`
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	parentID, err := nodeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var childID int
	_, err = s.mutate(r.Context(), chi.URLParam(r, "id"), func(ed *editor.Document) error {
		id, err := ed.AddChild(parentID)
		childID = id
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, nodeResponse{ID: childID})
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req patchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var highlight *tree.Highlight
	setHighlight := len(req.Highlight) > 0
	if setHighlight && string(req.Highlight) != "null" {
		if err := json.Unmarshal(req.Highlight, &highlight); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode highlight"))
			return
		}
	}

	var node tree.Node
	_, err = s.mutate(r.Context(), chi.URLParam(r, "id"), func(ed *editor.Document) error {
		if req.Text != nil {
			if err := ed.SetText(id, *req.Text); err != nil {
				return err
			}
		}
		if setHighlight {
			if err := ed.SetHighlight(id, highlight); err != nil {
				return err
			}
		}
		n, err := ed.Node(id)
		node = n
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, err = s.mutate(r.Context(), chi.URLParam(r, "id"), func(ed *editor.Document) error {
		_, err := ed.DeleteSubtree(id)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout and rendering
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runnerFor(id).Layout(r.Context(), doc.Tree, s.options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.options()
	opts.Formats = []string{string(format)}
	if q := r.URL.Query().Get("scale"); q != "" {
		scale, err := strconv.ParseFloat(q, 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", q))
			return
		}
		opts.Style.Scale = scale
	}

	result, err := s.runnerFor(id).Execute(r.Context(), doc.Tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(result.Artifacts[string(format)])
}

// =============================================================================
// Helpers
// =============================================================================

// mutate loads a document, applies fn, re-lays it out and stores it.
func (s *Server) mutate(ctx context.Context, id string, fn func(*editor.Document) error) (*store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ed := editor.FromTree(doc.Tree)
	if err := fn(ed); err != nil {
		return nil, err
	}
	if _, err := ed.Layout(s.cfg.Layout); err != nil {
		return nil, err
	}

	doc.Tree = ed.Export()
	doc.Touch()
	if err := s.store.Put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// runnerFor scopes cache keys to one document.
func (s *Server) runnerFor(id string) *pipeline.Runner {
	r := *s.runner
	r.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "doc:"+id+":")
	return &r
}

func (s *Server) options() pipeline.Options {
	style := s.cfg.Style
	style.Highlights = append([]string(nil), style.Highlights...)
	return pipeline.Options{
		Layout: s.cfg.Layout,
		Style:  style,
		Logger: s.logger,
	}
}

func nodeID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "nodeID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", raw)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

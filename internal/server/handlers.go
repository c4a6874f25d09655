package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/mesh"
	"github.com/matzehuels/openmodel/pkg/render"
	"github.com/matzehuels/openmodel/pkg/render/nodelink"
	"github.com/matzehuels/openmodel/pkg/store"
)

const (
	contentJSON   = "application/json"
	contentYAML   = "application/yaml"
	contentBinary = "application/octet-stream"
	contentSVG    = "image/svg+xml"
)

type listResponse struct {
	Models []string `json:"models"`
}

type putResponse struct {
	ID    string         `json:"id"`
	Stats document.Stats `json:"stats"`
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Models: identity.Strings(ids)})
}

func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	data, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if data, err = document.Decompress(data); err != nil {
		s.writeError(w, err)
		return
	}

	etag := `"` + store.Hash(data) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", contentJSON)
		_, _ = w.Write(data)
	case "yaml":
		doc, err := document.FromText(data)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out, err := document.ToYAML(doc)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentYAML)
		_, _ = w.Write(out)
	default:
		s.writeError(w, errors.New(errors.CodeInvalidInput, "unknown format %q", format))
	}
}

func (s *Server) putModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.CodeInvalidInput, err, "read body"))
		return
	}

	enc := document.EncodingJSON
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); strings.HasSuffix(mt, "yaml") {
		enc = document.EncodingYAML
	}
	doc, err := document.Decode(body, enc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if doc.ID != id {
		s.writeError(w, errors.New(errors.CodeInvalidInput, "document %s cannot be stored as %s", doc.ID, id))
		return
	}

	save := store.Save
	if s.opts.Compress {
		save = store.SaveCompressed
	}
	if err := save(r.Context(), s.store, doc); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("stored document", "id", id, "name", doc.Name)
	writeJSON(w, http.StatusOK, putResponse{ID: id.String(), Stats: doc.Stats()})
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	if doc.Structure == nil {
		s.writeError(w, errors.New(errors.CodeNotFound, "document %s has no structure", doc.ID))
		return
	}
	view, err := nodelink.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.CodeInvalidInput, err, "view"))
		return
	}
	svg, err := nodelink.RenderSVG(nodelink.ToDOT(doc.Structure, nodelink.Options{View: view}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentSVG)
	_, _ = w.Write(svg)
}

func (s *Server) getBuffer(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	m, err := findMesh(doc, chi.URLParam(r, "mesh"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	smooth := s.opts.Smooth
	switch mode := r.URL.Query().Get("mode"); mode {
	case "":
	case "flat":
		smooth = false
	case "smooth":
		smooth = true
	default:
		s.writeError(w, errors.New(errors.CodeInvalidInput, "unknown mode %q", mode))
		return
	}
	build := render.BuildFlat
	if smooth {
		build = render.BuildSmooth
	}
	buf, err := build(m, s.opts.Render)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), contentBinary) {
		w.Header().Set("Content-Type", contentBinary)
		_, _ = buf.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, buf)
}

// findMesh resolves ref as a mesh ID first, then as a mesh name.
func findMesh(doc *document.Document, ref string) (*mesh.Mesh, error) {
	if id, err := identity.Parse(ref); err == nil {
		if m, ok := doc.Mesh(id); ok {
			return m, nil
		}
	}
	if m, ok := doc.MeshByName(ref); ok {
		return m, nil
	}
	return nil, errors.New(errors.CodeNotFound, "mesh %q not found", ref)
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	id, ok := s.pathID(w, r)
	if !ok {
		return nil, false
	}
	doc, err := store.Load(r.Context(), s.store, id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (identity.ID, bool) {
	id, err := identity.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.CodeInvalidInput, err, "model id"))
		return identity.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

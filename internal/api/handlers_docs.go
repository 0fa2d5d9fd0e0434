package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/store"
	"github.com/dgallion1/bylawgest/internal/validate"
)

// handleListDocuments lists every stored document, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document; its sections go with it.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	err := s.store.DeleteDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("document deleted", "doc_id", docID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// handleListSections returns a document's sections in document order, or
// nested when view=tree.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	sections, err := s.store.ListSections(ctx, doc.ID)
	if err != nil {
		jsonError(w, "failed to list sections: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Query().Get("view") {
	case "tree":
		json.NewEncoder(w).Encode(doctree.Nest(doc.ID, doc.Title, sections))
	case "", "flat":
		if sections == nil {
			sections = []doctree.PersistedSection{}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"document": doc,
			"sections": sections,
		})
	default:
		jsonError(w, "view must be flat or tree", http.StatusBadRequest)
	}
}

// handleAncestors returns the chain above a section, root first.
func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	sectionID, err := strconv.ParseInt(chi.URLParam(r, "sectionID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid section id", http.StatusBadRequest)
		return
	}

	section, err := s.store.GetSection(r.Context(), docID, sectionID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load section: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ancestors, err := s.store.Ancestors(r.Context(), docID, sectionID)
	if err != nil {
		jsonError(w, "failed to load ancestors: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if ancestors == nil {
		ancestors = []doctree.PersistedSection{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"section":   section,
		"ancestors": ancestors,
	})
}

// handleValidation re-checks the stored tree of a document.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	report, err := validate.New(s.store).Validate(r.Context(), doc.ID)
	if err != nil {
		jsonError(w, "validation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (store.Document, bool) {
	doc, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "docID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return doc, false
	}
	if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return doc, false
	}
	return doc, true
}

package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListItems(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleItemByID(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	item, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleItemsByName(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleUserByName(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

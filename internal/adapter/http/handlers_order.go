package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Submit(r.Context(), subjectFrom(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.History(r.Context(), subjectFrom(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

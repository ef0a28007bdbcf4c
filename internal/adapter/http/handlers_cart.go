package adapthttp

import (
	"context"
	"net/http"

	"storefront/internal/app"
	"storefront/internal/domain"
)

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.carts.GetCart(r.Context(), subjectFrom(r.Context()))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	s.handleCartChange(w, r, s.carts.AddToCart)
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s.handleCartChange(w, r, s.carts.RemoveFromCart)
}

type cartMutation func(ctx context.Context, actor string, change app.CartChange) (*domain.Cart, error)

func (s *Server) handleCartChange(w http.ResponseWriter, r *http.Request, mutate cartMutation) {
	var req app.CartChange
	if err := parseJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	cart, err := mutate(r.Context(), subjectFrom(r.Context()), req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

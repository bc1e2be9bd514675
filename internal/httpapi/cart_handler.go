package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	view, err := s.cart.List(identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req addCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.cart.AddItem(identity.UserID, req.ProductID, req.Qty); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.cart.List(identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartResponse(view))
}

type updateCartItemRequest struct {
	Qty int32 `json:"qty"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req updateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.cart.UpdateItemQty(identity.UserID, chi.URLParam(r, "productId"), req.Qty); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	if err := s.cart.RemoveItem(identity.UserID, chi.URLParam(r, "productId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	if err := s.cart.Clear(identity.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

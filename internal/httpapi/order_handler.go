package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

type placeOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PhoneNumber     string `json:"phone_number"`
	Notes           string `json:"notes"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := s.checkout.PlaceOrder(checkout.PlaceOrderInput{
		UserID:          identity.UserID,
		ShippingAddress: req.ShippingAddress,
		PhoneNumber:     req.PhoneNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	orders, err := s.checkout.ListUserOrders(identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	order, err := s.checkout.GetOrder(chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := s.checkout.UpdateOrderStatus(chi.URLParam(r, "id"), status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"finpay-bridge/internal/checkout"
	"finpay-bridge/internal/middleware"
	"finpay-bridge/internal/order"
	"finpay-bridge/internal/utils"
)

// Handler exposes the storefront-facing JSON routes: payment initiation at
// checkout and status polling after the browser returns.
type Handler struct {
	checkout checkout.Service
	orders   order.Service
}

func NewHandler(checkoutSvc checkout.Service, orders order.Service) *Handler {
	return &Handler{
		checkout: checkoutSvc,
		orders:   orders,
	}
}

// InitiatePayment handles POST /api/checkout/{orderID}/pay.
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.authorizedOrder(w, r)
	if !ok {
		return
	}

	redirectURL, err := h.checkout.Initiate(r.Context(), w, o.ID)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"redirect_url": redirectURL})
}

// PaymentStatus handles GET /api/orders/{orderID}/payment.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	o, ok := h.authorizedOrder(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order_id": o.ID,
		"status":   o.Status,
	})
}

// authorizedOrder loads the order from the path and checks it belongs to
// the authenticated user.
func (h *Handler) authorizedOrder(w http.ResponseWriter, r *http.Request) (*order.Order, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	orderID, err := utils.ToUint(r.PathValue("orderID"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return nil, false
	}

	o, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			utils.WriteJSONError(w, "order not found", http.StatusNotFound)
		} else {
			utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		}
		return nil, false
	}

	if o.UserID != userID {
		utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
		return nil, false
	}

	return o, true
}

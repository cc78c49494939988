package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/furniture-shop/internal/api/middleware"
	"github.com/example/furniture-shop/internal/order"
)

// OrderHandlers covers order history and admin status management.
type OrderHandlers struct {
	orders *order.Service
}

func NewOrderHandlers(orders *order.Service) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

func (h *OrderHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var upd order.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

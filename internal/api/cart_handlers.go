package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/furniture-shop/internal/api/middleware"
	"github.com/example/furniture-shop/internal/cart"
	"github.com/example/furniture-shop/internal/checkout"
	"github.com/example/furniture-shop/internal/model"
)

// CartHandlers covers the authenticated user's cart, including checkout.
type CartHandlers struct {
	carts    *cart.Service
	checkout *checkout.Engine
}

func NewCartHandlers(carts *cart.Service, engine *checkout.Engine) *CartHandlers {
	return &CartHandlers{carts: carts, checkout: engine}
}

type cartResponse struct {
	Cart  *model.Cart         `json:"cart"`
	Items []cart.ResolvedItem `json:"items"`
}

func (h *CartHandlers) respondCart(w http.ResponseWriter, r *http.Request, status int, c *model.Cart) {
	items, err := h.carts.Resolve(r.Context(), c)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, status, cartResponse{Cart: c, Items: items})
}

func (h *CartHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.carts.AddItem(r.Context(), middleware.GetUserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["productId"], req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["productId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

// Checkout turns the cart into an order.
func (h *CartHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.checkout.Checkout(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

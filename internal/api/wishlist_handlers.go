package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/furniture-shop/internal/api/middleware"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/wishlist"
)

// WishlistHandlers covers the authenticated user's saved products.
type WishlistHandlers struct {
	wishlists *wishlist.Service
}

func NewWishlistHandlers(wishlists *wishlist.Service) *WishlistHandlers {
	return &WishlistHandlers{wishlists: wishlists}
}

type wishlistResponse struct {
	Wishlist *model.Wishlist `json:"wishlist"`
	Products []model.Product `json:"products"`
}

func (h *WishlistHandlers) respondWishlist(w http.ResponseWriter, r *http.Request, wl *model.Wishlist) {
	products, err := h.wishlists.Resolve(r.Context(), wl)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wishlistResponse{Wishlist: wl, Products: products})
}

func (h *WishlistHandlers) Get(w http.ResponseWriter, r *http.Request) {
	wl, err := h.wishlists.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondWishlist(w, r, wl)
}

type wishlistItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *WishlistHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req wishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	wl, err := h.wishlists.Add(r.Context(), middleware.GetUserID(r.Context()), req.ProductID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondWishlist(w, r, wl)
}

func (h *WishlistHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	wl, err := h.wishlists.Remove(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["productId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondWishlist(w, r, wl)
}

// MoveToCart moves one saved product into the cart with quantity 1.
func (h *WishlistHandlers) MoveToCart(w http.ResponseWriter, r *http.Request) {
	var req wishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	wl, err := h.wishlists.MoveToCart(r.Context(), middleware.GetUserID(r.Context()), req.ProductID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.respondWishlist(w, r, wl)
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/example/furniture-shop/internal/catalog"
	"github.com/example/furniture-shop/internal/model"
)

// ProductHandlers covers the public catalog and its admin management.
type ProductHandlers struct {
	catalog *catalog.Service
}

func NewProductHandlers(c *catalog.Service) *ProductHandlers {
	return &ProductHandlers{catalog: c}
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// List serves the browse page: category, price range, search and pagination
// all come in as query parameters.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := model.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid minPrice"})
			return
		}
		f.MinPrice = &d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid maxPrice"})
			return
		}
		f.MaxPrice = &d
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	result, err := h.catalog.List(r.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var in catalog.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := h.catalog.Update(r.Context(), mux.Vars(r)["slug"], in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["slug"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deleted")
}

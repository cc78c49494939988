package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/api/middleware"
	"github.com/example/furniture-shop/internal/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandlers
	Product  *ProductHandlers
	Cart     *CartHandlers
	Order    *OrderHandlers
	User     *UserHandlers
	Wishlist *WishlistHandlers
}

// NewRouter mounts the storefront under /api.
func NewRouter(h Handlers, jwtService *auth.JWTService) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogging)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", h.Auth.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/product", h.Product.List).Methods(http.MethodGet)
	api.HandleFunc("/product/{slug}", h.Product.Get).Methods(http.MethodGet)

	authMW := middleware.Auth(jwtService)

	// Authenticated user routes.
	user := api.NewRoute().Subrouter()
	user.Use(authMW)
	user.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	user.HandleFunc("/cart/add", h.Cart.AddItem).Methods(http.MethodPost)
	user.HandleFunc("/cart/update/{productId}", h.Cart.UpdateItem).Methods(http.MethodPut)
	user.HandleFunc("/cart/remove/{productId}", h.Cart.RemoveItem).Methods(http.MethodDelete)
	user.HandleFunc("/cart/clear", h.Cart.Clear).Methods(http.MethodDelete)
	user.HandleFunc("/cart/checkout", h.Cart.Checkout).Methods(http.MethodPost)
	user.HandleFunc("/order/user", h.Order.ListMine).Methods(http.MethodGet)
	user.HandleFunc("/wishlist", h.Wishlist.Get).Methods(http.MethodGet)
	user.HandleFunc("/wishlist/add", h.Wishlist.Add).Methods(http.MethodPost)
	user.HandleFunc("/wishlist/delete/{productId}", h.Wishlist.Remove).Methods(http.MethodDelete)
	user.HandleFunc("/wishlist/move", h.Wishlist.MoveToCart).Methods(http.MethodPost)

	// Admin routes.
	admin := api.NewRoute().Subrouter()
	admin.Use(authMW, middleware.RequireAdmin)
	admin.HandleFunc("/product/add", h.Product.Create).Methods(http.MethodPost)
	admin.HandleFunc("/product/{slug}", h.Product.Update).Methods(http.MethodPut)
	admin.HandleFunc("/product/{slug}", h.Product.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/order", h.Order.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/order/update/{id}", h.Order.UpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/user", h.User.List).Methods(http.MethodGet)
	admin.HandleFunc("/user/update/{id}", h.User.SetAdmin).Methods(http.MethodPut)
	admin.HandleFunc("/user/delete/{id}", h.User.Delete).Methods(http.MethodDelete)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

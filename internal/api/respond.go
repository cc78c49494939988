// Package api is the HTTP surface of the storefront.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/auth"
	"github.com/example/furniture-shop/internal/catalog"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/user"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("encoding response")
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError translates a service error into an HTTP status. Internal
// failures are logged and hidden behind a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		respondJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, model.ErrDuplicateProduct),
		errors.Is(err, model.ErrDuplicateEmail),
		errors.Is(err, model.ErrWishlistDuplicate):
		return http.StatusConflict

	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCartNotFound),
		errors.Is(err, model.ErrItemNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidPayment),
		errors.Is(err, model.ErrInvalidAddress),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrInvalidCategory):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

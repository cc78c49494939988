package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/furniture-shop/internal/auth"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/user"
)

// AuthHandlers covers registration, login and password reset.
type AuthHandlers struct {
	users *user.Service
	jwt   *auth.JWTService
}

func NewAuthHandlers(users *user.Service, jwt *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{users: users, jwt: jwt}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type authResponse struct {
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message,omitempty"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	u, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token := h.issueToken(w, r, u)
	respondJSON(w, http.StatusCreated, authResponse{User: u, Token: token, Message: "registration successful"})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token := h.issueToken(w, r, u)
	respondJSON(w, http.StatusOK, authResponse{User: u, Token: token, Message: "login successful"})
}

// ForgotPassword resets the password for the given email. There is no mail
// round trip; the new password comes with the request.
func (h *AuthHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password updated")
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondMessage(w, http.StatusOK, "logout successful")
}

// issueToken generates a JWT, sets it as an HttpOnly cookie for browsers and
// returns it for API clients.
func (h *AuthHandlers) issueToken(w http.ResponseWriter, r *http.Request, u *model.User) string {
	token, expiry, err := h.jwt.GenerateToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

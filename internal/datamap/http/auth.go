package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/privacydesk/datamapd/internal/datamap/service"
	"github.com/privacydesk/datamapd/pkg/httpx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and returns a bearer token for it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user, token, err := h.AuthService.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error: "Email and password are required",
			})
		case errors.Is(err, service.ErrPasswordTooShort):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error: "Password must be at least 6 characters long",
			})
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error: "User already exists with this email",
			})
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "Internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    newUserResponse(user),
	})
}

// HandleLogin verifies credentials and returns a fresh bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error: "Email and password are required",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			// One message for unknown email and wrong password alike.
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
				Error: "Invalid email or password",
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "Internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    newUserResponse(user),
	})
}

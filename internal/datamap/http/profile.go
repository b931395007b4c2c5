package http

import (
	"net/http"

	"github.com/privacydesk/datamapd/internal/datamap/service"
	"github.com/privacydesk/datamapd/pkg/httpx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

type ProfileHandler struct {
	AuthService *service.AuthService
}

type profileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// ServeHTTP returns the authenticated user's account. The identity comes from
// the verified token, looked up fresh so a stale token for a missing account
// does not fabricate a profile.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	user, err := h.AuthService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse{
		Message: "This is a protected route",
		User:    newUserResponse(user),
	})
}

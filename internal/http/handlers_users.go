package httpx

import (
	"net/http"

	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/service"
)

// UserHandlers contains HTTP handlers for account endpoints.
type UserHandlers struct {
	Svc *service.UserService
}

// Create handles POST /api/v1/users: provisions an account for an
// identity-provider pair.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// UpdateMe handles PATCH /api/v1/users/me: edits the caller's display name.
func (h *UserHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		WriteAppError(w, apperrors.Unauthorized("invalid session"))
		return
	}

	var req model.UpdateDisplayNameRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.UpdateDisplayName(r.Context(), userID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

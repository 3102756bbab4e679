package httpx

import (
	"net/http"

	"github.com/rollbook/rollbook-api/internal/domain/model"
	"github.com/rollbook/rollbook-api/internal/service"
)

// IngredientHandlers contains HTTP handlers for the ingredient vocabulary.
type IngredientHandlers struct {
	Svc *service.IngredientService
}

// List handles GET /api/v1/ingredients: all active tags, name-sorted.
func (h *IngredientHandlers) List(w http.ResponseWriter, r *http.Request) {
	options, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if options == nil {
		options = []*model.IngredientOption{}
	}
	WriteJSON(w, http.StatusOK, options)
}

// Create handles POST /api/v1/ingredients: adds a tag to the shared vocabulary.
func (h *IngredientHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIngredientRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tag, err := h.Svc.Create(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, tag)
}

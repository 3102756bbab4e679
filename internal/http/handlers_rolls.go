package httpx

import (
	"net/http"

	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/service"
)

// RollHandlers contains HTTP handlers for roll log endpoints.
type RollHandlers struct {
	Svc    *service.RollService
	Photos *service.PhotoService
}

// List handles GET /api/v1/rolls: the aggregated feed.
func (h *RollHandlers) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if groups == nil {
		groups = []*model.RollGroup{}
	}
	WriteJSON(w, http.StatusOK, groups)
}

// Entries handles GET /api/v1/rolls/entries?roll_name=X&restaurant_name=Y:
// the individual logs inside one group.
func (h *RollHandlers) Entries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.Svc.Entries(r.Context(), q.Get("roll_name"), q.Get("restaurant_name"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// Create handles POST /api/v1/rolls: logs a roll with existing tag ids.
func (h *RollHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRollRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	roll, err := h.Svc.Log(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, roll)
}

// Relog handles POST /api/v1/rolls/relog: logs a dish again with free-form
// ingredient names, creating missing tags.
func (h *RollHandlers) Relog(w http.ResponseWriter, r *http.Request) {
	var req model.RelogRollRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	roll, err := h.Svc.Relog(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, roll)
}

// UploadPhoto handles POST /api/v1/rolls/photos: multipart upload of one
// photo attached to a roll.
func (h *RollHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 4 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_multipart", Err: err})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteAppError(w, apperrors.ValidationField("photo", "photo file is required"))
		return
	}
	defer file.Close()

	photo, err := h.Photos.Attach(r.Context(),
		UserIDFromContext(r.Context()), r.FormValue("roll_id"), header.Filename, file)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, photo)
}

// DeletePhoto handles DELETE /api/v1/rolls/photos/{id}: uploader-only removal.
func (h *RollHandlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := r.PathValue("id")
	if photoID == "" {
		WriteAppError(w, apperrors.ValidationField("id", "photo id is required"))
		return
	}
	if err := h.Photos.Delete(r.Context(), UserIDFromContext(r.Context()), photoID); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

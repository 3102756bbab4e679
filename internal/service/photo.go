package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rollbook/rollbook-api/config"
	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// errPhotoTooLarge reports an upload body larger than the configured cap.
var errPhotoTooLarge = errors.New("photo exceeds size limit")

// allowedPhotoExts is the accepted upload extension allowlist.
var allowedPhotoExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// PhotoServiceOptions groups dependencies for PhotoService.
type PhotoServiceOptions struct {
	Photos  core.PhotoRepository
	Uploads config.UploadConfig
}

// PhotoService handles roll photo uploads and removal. Files are stored under
// the configured uploads directory with random names; the original filename
// only contributes its extension.
type PhotoService struct {
	photos  core.PhotoRepository
	uploads config.UploadConfig
}

// NewPhotoService constructs a new PhotoService.
func NewPhotoService(opts PhotoServiceOptions) *PhotoService {
	return &PhotoService{photos: opts.Photos, uploads: opts.Uploads}
}

// Attach stores an uploaded photo file and records it against a roll.
func (s *PhotoService) Attach(ctx context.Context, userID, rollID, filename string, src io.Reader) (*model.RollPhoto, error) {
	if rollID == "" {
		return nil, apperrors.ValidationField("roll_id", "roll_id is required")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedPhotoExts[ext] {
		return nil, apperrors.ValidationField("photo", "unsupported file type")
	}

	storedName, err := randomFileName(ext)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate file name")
	}
	if err := s.writeFile(storedName, src); err != nil {
		if errors.Is(err, errPhotoTooLarge) {
			return nil, apperrors.ValidationField("photo", "photo exceeds the maximum upload size")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "store photo file")
	}

	photo, err := s.photos.Create(ctx, &model.RollPhoto{
		RollID:   rollID,
		UserID:   userID,
		PhotoURL: "/uploads/" + storedName,
	})
	if err != nil {
		// The file is orphaned if the insert fails; remove it again.
		_ = os.Remove(filepath.Join(s.uploads.Dir, storedName))
		if apperrors.GetCode(err) == apperrors.ErrCodeForeignKey {
			return nil, apperrors.NotFound("roll not found")
		}
		return nil, err
	}
	return photo, nil
}

// Delete removes a photo. Only the uploader may delete it.
func (s *PhotoService) Delete(ctx context.Context, userID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, data.ErrPhotoNotFound) {
			return apperrors.NotFound("photo not found")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "get photo")
	}
	if photo.UserID != userID {
		return apperrors.Forbidden("photo belongs to another user")
	}

	if _, err := s.photos.Delete(ctx, photoID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "delete photo")
	}
	// Best effort; a stale file on disk is harmless.
	_ = os.Remove(filepath.Join(s.uploads.Dir, filepath.Base(photo.PhotoURL)))
	return nil
}

func (s *PhotoService) writeFile(name string, src io.Reader) error {
	if err := os.MkdirAll(s.uploads.Dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	path := filepath.Join(s.uploads.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	// Copy one byte past the cap so an oversized upload is rejected
	// instead of silently truncated.
	n, err := io.Copy(dst, io.LimitReader(src, s.uploads.MaxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write photo file: %w", err)
	}
	if n > s.uploads.MaxBytes {
		_ = os.Remove(path)
		return errPhotoTooLarge
	}
	return nil
}

func randomFileName(ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + "." + ext, nil
}

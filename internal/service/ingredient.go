package service

import (
	"context"
	"errors"

	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// IngredientServiceOptions groups dependencies for IngredientService.
type IngredientServiceOptions struct {
	Ingredients core.IngredientRepository
}

// IngredientService handles the shared ingredient tag vocabulary.
type IngredientService struct {
	ingredients core.IngredientRepository
}

// NewIngredientService constructs a new IngredientService.
func NewIngredientService(opts IngredientServiceOptions) *IngredientService {
	return &IngredientService{ingredients: opts.Ingredients}
}

// List returns all active ingredient tags.
func (s *IngredientService) List(ctx context.Context) ([]*model.IngredientOption, error) {
	options, err := s.ingredients.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "list ingredients")
	}
	return options, nil
}

// Create adds a new tag to the shared vocabulary.
func (s *IngredientService) Create(ctx context.Context, userID string, req *model.CreateIngredientRequest) (*model.IngredientTag, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tag, err := s.ingredients.Create(ctx, userID, req)
	if err != nil {
		if errors.Is(err, data.ErrIngredientExists) {
			return nil, apperrors.Conflict("ingredient already exists")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create ingredient")
	}
	return tag, nil
}

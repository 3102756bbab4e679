package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
)

// RollServiceOptions groups dependencies for RollService.
type RollServiceOptions struct {
	Rolls       core.RollRepository
	Ingredients core.IngredientRepository
}

// RollService handles logging dishes and assembling the aggregated feed.
type RollService struct {
	rolls       core.RollRepository
	ingredients core.IngredientRepository
}

// NewRollService constructs a new RollService.
func NewRollService(opts RollServiceOptions) *RollService {
	return &RollService{rolls: opts.Rolls, ingredients: opts.Ingredients}
}

// List returns the aggregated feed with thumbnails and tags attached. The
// three queries are independent and run concurrently.
func (s *RollService) List(ctx context.Context) ([]*model.RollGroup, error) {
	var (
		groups []*model.RollGroup
		thumbs map[string]string
		tags   map[string][]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.rolls.ListGroups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		thumbs, err = s.rolls.GroupThumbnails(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.rolls.GroupTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "list rolls")
	}

	for _, group := range groups {
		key := data.GroupKey(group.RollName, group.RestaurantName)
		if url, ok := thumbs[key]; ok {
			group.ThumbURL = &url
		}
		group.Tags = tags[key]
	}
	return groups, nil
}

// Entries returns the individual logs for one dish at one restaurant.
func (s *RollService) Entries(ctx context.Context, rollName, restaurantName string) ([]*model.RollEntry, error) {
	if rollName == "" {
		return nil, apperrors.ValidationField("roll_name", "roll_name is required")
	}
	if restaurantName == "" {
		return nil, apperrors.ValidationField("restaurant_name", "restaurant_name is required")
	}
	entries, err := s.rolls.ListEntries(ctx, rollName, restaurantName)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "list roll entries")
	}
	if len(entries) == 0 {
		return nil, apperrors.NotFound("roll not found")
	}
	return entries, nil
}

// Log records a new roll referencing existing ingredient tags by id.
func (s *RollService) Log(ctx context.Context, userID string, req *model.CreateRollRequest) (*model.Roll, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	roll, err := s.rolls.Create(ctx, userID, req)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeForeignKey {
			return nil, apperrors.ValidationField("ingredients", "unknown ingredient tag")
		}
		return nil, err
	}
	return roll, nil
}

// Relog records another log of a dish using free-form ingredient names,
// creating missing tags on the way.
func (s *RollService) Relog(ctx context.Context, userID string, req *model.RelogRollRequest) (*model.Roll, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tagIDs := make([]string, 0, len(req.IngredientNames))
	for _, name := range req.IngredientNames {
		if model.NormalizeIngredientName(name) == "" {
			continue
		}
		tag, err := s.ingredients.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve ingredient tag")
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	return s.rolls.Create(ctx, userID, &model.CreateRollRequest{
		RollName:         req.RollName,
		RestaurantName:   req.RestaurantName,
		Rating:           req.Rating,
		Notes:            req.Notes,
		IngredientTagIDs: tagIDs,
	})
}

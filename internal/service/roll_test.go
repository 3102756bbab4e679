package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/mocks"
)

// newRollService creates mock repositories and a service for testing.
func newRollService(t *testing.T) (*mocks.MockRollRepository, *mocks.MockIngredientRepository, *RollService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	rollRepo := mocks.NewMockRollRepository(ctrl)
	ingredientRepo := mocks.NewMockIngredientRepository(ctrl)

	service := NewRollService(RollServiceOptions{
		Rolls:       rollRepo,
		Ingredients: ingredientRepo,
	})
	return rollRepo, ingredientRepo, service
}

func TestRollService_List_AttachesThumbsAndTags(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)
	ctx := context.Background()

	groups := []*model.RollGroup{
		{RollName: "spicy tuna", RestaurantName: "Umi", AvgRating: 4.5, RatingsCount: 2},
		{RollName: "dragon", RestaurantName: "Kaiten", AvgRating: 3, RatingsCount: 1},
	}
	rollRepo.EXPECT().ListGroups(gomock.Any()).Return(groups, nil)
	rollRepo.EXPECT().GroupThumbnails(gomock.Any()).Return(map[string]string{
		data.GroupKey("spicy tuna", "Umi"): "/uploads/abc.jpg",
	}, nil)
	rollRepo.EXPECT().GroupTags(gomock.Any()).Return(map[string][]string{
		data.GroupKey("spicy tuna", "Umi"): {"avocado", "tuna"},
	}, nil)

	got, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].ThumbURL)
	assert.Equal(t, "/uploads/abc.jpg", *got[0].ThumbURL)
	assert.Equal(t, []string{"avocado", "tuna"}, got[0].Tags)

	assert.Nil(t, got[1].ThumbURL)
	assert.Empty(t, got[1].Tags)
}

func TestRollService_List_PropagatesRepoError(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)

	rollRepo.EXPECT().ListGroups(gomock.Any()).Return(nil, assert.AnError)
	rollRepo.EXPECT().GroupThumbnails(gomock.Any()).Return(nil, nil).MaxTimes(1)
	rollRepo.EXPECT().GroupTags(gomock.Any()).Return(nil, nil).MaxTimes(1)

	_, err := service.List(context.Background())
	assert.True(t, apperrors.IsInternal(err))
}

func TestRollService_Entries_RequiresGroupKey(t *testing.T) {
	t.Parallel()
	_, _, service := newRollService(t)

	_, err := service.Entries(context.Background(), "", "Umi")
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.Entries(context.Background(), "spicy tuna", "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRollService_Entries_Success(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)

	entries := []*model.RollEntry{
		{RollID: "roll-1", Rating: 5, CreatedBy: "Ami", CreatedAt: time.Now()},
	}
	rollRepo.EXPECT().ListEntries(gomock.Any(), "spicy tuna", "Umi").Return(entries, nil)

	got, err := service.Entries(context.Background(), "spicy tuna", "Umi")
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestRollService_Entries_UnknownGroup(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)

	rollRepo.EXPECT().ListEntries(gomock.Any(), "ghost roll", "Nowhere").Return(nil, nil)

	_, err := service.Entries(context.Background(), "ghost roll", "Nowhere")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRollService_Log_Success(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)

	req := &model.CreateRollRequest{
		RollName:         "  spicy tuna  ",
		RestaurantName:   "Umi",
		Rating:           4,
		IngredientTagIDs: []string{"tag-1"},
	}
	expected := &model.Roll{ID: "roll-1", RollName: "spicy tuna", RestaurantName: "Umi"}
	rollRepo.EXPECT().Create(gomock.Any(), "user-1", req).Return(expected, nil)

	roll, err := service.Log(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, expected, roll)
	assert.Equal(t, "spicy tuna", req.RollName)
}

func TestRollService_Log_MissingName(t *testing.T) {
	t.Parallel()
	_, _, service := newRollService(t)

	_, err := service.Log(context.Background(), "user-1", &model.CreateRollRequest{RestaurantName: "Umi"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRollService_Log_UnknownIngredientTag(t *testing.T) {
	t.Parallel()
	rollRepo, _, service := newRollService(t)

	req := &model.CreateRollRequest{
		RollName:         "dragon",
		RestaurantName:   "Kaiten",
		IngredientTagIDs: []string{"tag-missing"},
	}
	rollRepo.EXPECT().Create(gomock.Any(), "user-1", req).
		Return(nil, &apperrors.AppError{Code: apperrors.ErrCodeForeignKey, Message: "fk"})

	_, err := service.Log(context.Background(), "user-1", req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRollService_Relog_ResolvesIngredientNames(t *testing.T) {
	t.Parallel()
	rollRepo, ingredientRepo, service := newRollService(t)

	ingredientRepo.EXPECT().GetOrCreate(gomock.Any(), "user-1", "Tuna").
		Return(&model.IngredientTag{ID: "tag-1", Name: "tuna"}, nil)
	ingredientRepo.EXPECT().GetOrCreate(gomock.Any(), "user-1", "avocado").
		Return(&model.IngredientTag{ID: "tag-2", Name: "avocado"}, nil)
	rollRepo.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req *model.CreateRollRequest) (*model.Roll, error) {
			assert.Equal(t, []string{"tag-1", "tag-2"}, req.IngredientTagIDs)
			return &model.Roll{ID: "roll-2"}, nil
		})

	req := &model.RelogRollRequest{
		RollName:        "spicy tuna",
		RestaurantName:  "Umi",
		Rating:          4,
		IngredientNames: []string{"Tuna", "avocado", "  "},
	}
	roll, err := service.Relog(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "roll-2", roll.ID)
}

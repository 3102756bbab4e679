package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook-api/internal/domain/model"
	apperrors "github.com/rollbook/rollbook-api/internal/errors"
	"github.com/rollbook/rollbook-api/internal/testutil"
)

func createTestTag(t *testing.T, db *sql.DB, userID, name string) *model.IngredientTag {
	t.Helper()

	repo := NewIngredientRepo(db)
	tag, err := repo.Create(context.Background(), userID, &model.CreateIngredientRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func TestRollRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewRollRepoWithTimeProvider(db, clock)
	user := createTestUser(t, db, "roll-create-sub")

	t.Run("logs a roll with ingredient links", func(t *testing.T) {
		tag := createTestTag(t, db, user.ID, "nori")

		roll, err := repo.Create(context.Background(), user.ID, &model.CreateRollRequest{
			RollName:         "Spicy Tuna",
			RestaurantName:   "Sushi Go",
			Rating:           4.5,
			Notes:            testutil.StringPtr("extra crunchy"),
			IngredientTagIDs: []string{tag.ID},
		})
		require.NoError(t, err)
		require.NotNil(t, roll)

		assert.NotEmpty(t, roll.ID)
		assert.Equal(t, user.ID, roll.UserID)
		assert.Equal(t, "Spicy Tuna", roll.RollName)
		assert.InEpsilon(t, 4.5, roll.Rating, 0.001)
		assert.Equal(t, clock.Now(), roll.CreatedAt)

		tags, err := repo.GroupTags(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"nori"}, tags[GroupKey("Spicy Tuna", "Sushi Go")])
	})

	t.Run("unknown ingredient tag rolls the whole log back", func(t *testing.T) {
		_, err := repo.Create(context.Background(), user.ID, &model.CreateRollRequest{
			RollName:         "Dragon Roll",
			RestaurantName:   "Sushi Go",
			Rating:           4,
			IngredientTagIDs: []string{"3b36ec35-6a3c-4dd6-b89b-0a6a5b1c0000"},
		})
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeForeignKey, appErr.Code)

		entries, err := repo.ListEntries(context.Background(), "Dragon Roll", "Sushi Go")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestRollRepo_ListGroups(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewRollRepoWithTimeProvider(db, clock)
	user := createTestUser(t, db, "roll-groups-sub")

	log := func(name, restaurant string, rating float64) {
		t.Helper()
		_, err := repo.Create(context.Background(), user.ID, &model.CreateRollRequest{
			RollName:       name,
			RestaurantName: restaurant,
			Rating:         rating,
		})
		require.NoError(t, err)
		clock.AddTime(time.Minute)
	}

	log("Spicy Tuna", "Sushi Go", 4)
	log("Spicy Tuna", "Sushi Go", 5)
	log("California", "Roll House", 3)

	groups, err := repo.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Newest activity first.
	assert.Equal(t, "California", groups[0].RollName)
	assert.Equal(t, "Spicy Tuna", groups[1].RollName)
	assert.InEpsilon(t, 4.5, groups[1].AvgRating, 0.001)
	assert.Equal(t, 2, groups[1].RatingsCount)
}

func TestRollRepo_ListEntries(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewRollRepoWithTimeProvider(db, clock)
	user := createTestUser(t, db, "roll-entries-sub")
	tag := createTestTag(t, db, user.ID, "wasabi")

	roll, err := repo.Create(context.Background(), user.ID, &model.CreateRollRequest{
		RollName:         "Spicy Tuna",
		RestaurantName:   "Sushi Go",
		Rating:           4,
		Notes:            testutil.StringPtr("ask for extra wasabi"),
		IngredientTagIDs: []string{tag.ID},
	})
	require.NoError(t, err)

	photoRepo := NewPhotoRepoWithTimeProvider(db, clock)
	_, err = photoRepo.Create(context.Background(), &model.RollPhoto{
		RollID:   roll.ID,
		UserID:   user.ID,
		PhotoURL: "/uploads/abc.jpg",
	})
	require.NoError(t, err)

	entries, err := repo.ListEntries(context.Background(), "Spicy Tuna", "Sushi Go")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, roll.ID, entry.RollID)
	assert.Equal(t, "Test User", entry.CreatedBy)
	assert.Equal(t, []string{"wasabi"}, entry.Ingredients)
	assert.Equal(t, []string{"/uploads/abc.jpg"}, entry.Photos)

	empty, err := repo.ListEntries(context.Background(), "Spicy Tuna", "Elsewhere")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRollRepo_GroupThumbnails(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	clock := NewFixedTimeProvider(testutil.TestTime())
	repo := NewRollRepoWithTimeProvider(db, clock)
	photoRepo := NewPhotoRepoWithTimeProvider(db, clock)
	user := createTestUser(t, db, "roll-thumbs-sub")

	roll, err := repo.Create(context.Background(), user.ID, &model.CreateRollRequest{
		RollName:       "Spicy Tuna",
		RestaurantName: "Sushi Go",
		Rating:         4,
	})
	require.NoError(t, err)

	_, err = photoRepo.Create(context.Background(), &model.RollPhoto{
		RollID: roll.ID, UserID: user.ID, PhotoURL: "/uploads/old.jpg",
	})
	require.NoError(t, err)
	clock.AddTime(time.Hour)
	_, err = photoRepo.Create(context.Background(), &model.RollPhoto{
		RollID: roll.ID, UserID: user.ID, PhotoURL: "/uploads/new.jpg",
	})
	require.NoError(t, err)

	thumbs, err := repo.GroupThumbnails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/new.jpg", thumbs[GroupKey("Spicy Tuna", "Sushi Go")])
}

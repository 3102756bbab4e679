// Package mocks provides mock implementations for testing the rollbook services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockSessionRepository(ctrl)
//	mockRepo.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(session, nil)
package mocks

// Generate mock for SessionRepository interface from internal/core package.
// This creates MockSessionRepository with methods for all SessionRepository interface methods:
// Create, Lookup, Refresh, Revoke
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_repository_mock.go github.com/rollbook/rollbook-api/internal/core SessionRepository

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// Create, GetByID, GetByProvider, TouchLastLogin, UpdateDisplayName, Snapshot
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/rollbook/rollbook-api/internal/core UserRepository

// Generate mock for RollRepository interface from internal/core package.
// This creates MockRollRepository with methods for all RollRepository interface methods:
// Create, ListGroups, ListEntries, LinkIngredient, GroupThumbnails, GroupTags
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=roll_repository_mock.go github.com/rollbook/rollbook-api/internal/core RollRepository

// Generate mock for IngredientRepository interface from internal/core package.
// This creates MockIngredientRepository with methods for all IngredientRepository interface methods:
// ListActive, Create, GetByName, GetOrCreate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ingredient_repository_mock.go github.com/rollbook/rollbook-api/internal/core IngredientRepository

// Generate mock for PhotoRepository interface from internal/core package.
// This creates MockPhotoRepository with methods for all PhotoRepository interface methods:
// Create, GetByID, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=photo_repository_mock.go github.com/rollbook/rollbook-api/internal/core PhotoRepository

// Generate mock for SnapshotCache interface from internal/core package.
// This creates MockSnapshotCache with methods for all SnapshotCache interface methods:
// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=snapshot_cache_mock.go github.com/rollbook/rollbook-api/internal/core SnapshotCache

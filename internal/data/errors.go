package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Session repository sentinels. The service layer collapses both into a
	// uniform unauthorized outcome for clients; revoke reports them
	// distinctly so the gate can pick the right response.
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRevoked  = errors.New("session already revoked")

	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")

	// Ingredient repository sentinels.
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient already exists")

	// Photo repository sentinels.
	ErrPhotoNotFound = errors.New("photo not found")
)

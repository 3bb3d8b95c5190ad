// Package profiles provides the server-side profile repository. Secret
// columns hold the client-sealed envelopes; the server never sees cleartext.
package profiles

import (
	"context"
	"errors"

	"github.com/progitman/progitman/internal/models"
)

var ErrNotFound = errors.New("profile not found")

// Repository is the persistence contract the API handlers depend on.
type Repository interface {
	// Create stores a new profile, assigning the id and write timestamp.
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)

	// Update replaces an existing profile and refreshes its timestamp.
	// Returns ErrNotFound when no such row exists.
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)

	// GetAll lists every profile ordered by name.
	GetAll(ctx context.Context) ([]*models.Profile, error)

	// Delete removes a profile. Returns ErrNotFound when no such row exists.
	Delete(ctx context.Context, id string) error
}

package profiles

import (
	"context"

	"github.com/dmitrijs2005/shadowshield/internal/server/models"
)

// Repository stores the single behavioral profile.
type Repository interface {
	// Ensure creates the default profile if none is stored yet.
	Ensure(ctx context.Context) error
	// Get returns the stored profile, or the default one if absent.
	Get(ctx context.Context) (models.BehaviorProfile, error)
	// Update loads the profile, applies fn and persists the result as one
	// atomic step. Nothing is written if fn returns an error.
	Update(ctx context.Context, fn func(p *models.BehaviorProfile) error) error
}

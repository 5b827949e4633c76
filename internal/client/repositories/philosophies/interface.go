package philosophies

import (
	"context"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

type Repository interface {
	// Upsert inserts p or replaces the row with the same ID, keeping its
	// creation time and position in listings.
	Upsert(ctx context.Context, p *models.Philosophy) error

	// GetAll returns the catalogue in insertion order.
	GetAll(ctx context.Context) ([]models.Philosophy, error)

	// GetByID returns common.ErrorNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*models.Philosophy, error)

	// DeleteByID returns common.ErrorNotFound when no row matches.
	DeleteByID(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}

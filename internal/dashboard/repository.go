package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/dto"
)

type Repository interface {
	Stats(ctx context.Context, ownerID string) (*dto.Stats, error)
	// MostStocked returns up to limit products ordered by stock, highest first.
	MostStocked(ctx context.Context, ownerID string, limit int) ([]dto.StockedProduct, error)
}

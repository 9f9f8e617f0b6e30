package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/dto"
)

type UseCase interface {
	GetStats(ctx context.Context, ownerID string) (*dto.Stats, error)
	TopSKUs(ctx context.Context, ownerID string) ([]dto.TopSKU, error)
}

package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/reconcile/dto"
)

type UseCase interface {
	ReconcileAll(ctx context.Context, ownerID string) (*dto.Report, error)
	ReconcileEveryOwner(ctx context.Context) ([]dto.Report, error)
}

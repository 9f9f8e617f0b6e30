package alert

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// SystemResolver is recorded as resolvedBy when a condition clears on its own.
const SystemResolver = "system"

// Tracker keeps at most one open alert per subject and type, opening and closing
// them as product and depot status change.
type Tracker interface {
	SyncProduct(ctx context.Context, p *model.Product) (dto.SyncResult, error)
	SyncDepot(ctx context.Context, d *model.Depot) (dto.SyncResult, error)
	// ResolveSubject closes every open alert about a deleted product or depot.
	ResolveSubject(ctx context.Context, ownerID, subjectID string) (int, error)
}

type UseCase interface {
	Tracker
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	MarkRead(ctx context.Context, ownerID, id string) (*model.Alert, error)
	Resolve(ctx context.Context, input *dto.ResolveInput) (*model.Alert, error)
}

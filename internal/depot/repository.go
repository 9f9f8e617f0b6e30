package depot

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, depot *model.Depot) error
	// FindByID returns nil, nil when the depot does not exist for ownerID. The
	// returned depot carries its product view.
	FindByID(ctx context.Context, ownerID, id string) (*model.Depot, error)
	FindAll(ctx context.Context, filters *dto.DepotFilters) ([]model.Depot, int, error)
	// Update writes name, location, capacity and status and refreshes the depot name
	// cached on relation rows. ErrConflict when utilization moved since the read.
	Update(ctx context.Context, depot *model.Depot) error
	// Delete removes an empty depot; ErrConflict when it still stores products.
	Delete(ctx context.Context, ownerID, id string) error
}

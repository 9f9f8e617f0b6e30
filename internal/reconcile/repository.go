package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Owners(ctx context.Context) ([]string, error)
	// Load returns every product with its distribution and every depot with its
	// stored product view.
	Load(ctx context.Context, ownerID string) ([]model.Product, []model.Depot, error)
	// SaveProduct writes derived stock and status, guarded by the stock read in Load.
	SaveProduct(ctx context.Context, p *model.Product, readStock int64) error
	// SaveDepot writes the rebuilt product view and counters, guarded by the
	// utilization read in Load.
	SaveDepot(ctx context.Context, d *model.Depot, readUtilization int64) error
	// SyncLinks refreshes cached product and depot names on relation rows and reports
	// how many rows changed.
	SyncLinks(ctx context.Context, ownerID string, links []model.DepotStock) (int, error)
}

package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

// Repository never writes stock: quantities change only through the transaction recorder.
type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	// FindByID returns nil, nil when the product does not exist for ownerID.
	FindByID(ctx context.Context, ownerID, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update writes descriptive fields, reorder point and status. It fails with
	// apperror.ErrConflict when the stored stock no longer equals product.Stock.
	Update(ctx context.Context, product *model.Product) error
	// Delete removes a product that holds no stock; ErrConflict otherwise.
	Delete(ctx context.Context, ownerID, id string) error

	IsSKUUnique(ctx context.Context, ownerID, sku, excludeID string) (bool, error)
	// Categories lists the distinct non-empty categories in use, sorted.
	Categories(ctx context.Context, ownerID string) ([]string, error)
}

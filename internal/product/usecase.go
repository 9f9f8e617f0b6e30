package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, ownerID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id string) error
	ListCategories(ctx context.Context, ownerID string) ([]string, error)
}

// Catalog keeps the list cache and search index in step with product writes.
type Catalog interface {
	Invalidate(ctx context.Context, ownerID string)
	Index(ctx context.Context, p *model.Product)
	Remove(ctx context.Context, id string)
	Search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	CachedList(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, bool)
	StoreList(ctx context.Context, filters *dto.ProductFilters, products []model.Product, count int)
}

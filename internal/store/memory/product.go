package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return apperror.ErrConflict
	}
	for _, other := range r.s.products {
		if other.OwnerID == p.OwnerID && other.SKU == p.SKU {
			return apperror.ErrConflict
		}
	}
	r.s.products[p.ID] = p.Clone()
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, ownerID, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.product(ownerID, id).Clone(), nil
}

func (r *ProductRepository) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.RLock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.OwnerID != f.OwnerID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.DepotID != "" {
			if _, idx := p.DistributionFor(f.DepotID); idx < 0 {
				continue
			}
		}
		if f.SearchQuery != "" && !containsFold(p.Name, f.SearchQuery) && !containsFold(p.SKU, f.SearchQuery) {
			continue
		}
		out = append(out, *p.Clone())
	}
	r.s.mu.RUnlock()

	asc := f.SortBy != "" && f.SortOrder == "asc"
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less, equal bool
		switch f.SortBy {
		case "name":
			less, equal = a.Name < b.Name, a.Name == b.Name
		case "sku":
			less, equal = a.SKU < b.SKU, a.SKU == b.SKU
		case "stock":
			less, equal = a.Stock < b.Stock, a.Stock == b.Stock
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})

	return page(out, f.Offset(), f.PageSize), len(out), nil
}

func (r *ProductRepository) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.product(p.OwnerID, p.ID)
	if cur == nil || cur.Stock != p.Stock {
		return apperror.ErrConflict
	}

	cur.SKU = p.SKU
	cur.Name = p.Name
	cur.Category = p.Category
	cur.UnitPrice = p.UnitPrice
	cur.ReorderPoint = p.ReorderPoint
	cur.Supplier = p.Supplier
	cur.Brand = p.Brand
	cur.LeadTimeDays = p.LeadTimeDays
	cur.DailySales = p.DailySales
	cur.WeeklySales = p.WeeklySales
	cur.ImageURL = p.Clone().ImageURL
	cur.Status = p.Status
	cur.UpdatedAt = p.UpdatedAt

	for i := range cur.DepotDistribution {
		e := &cur.DepotDistribution[i]
		e.ProductName, e.ProductSKU = cur.Name, cur.SKU
		if d := r.s.depot(cur.OwnerID, e.DepotID); d != nil {
			for j := range d.Products {
				if d.Products[j].ProductID == cur.ID {
					d.Products[j].ProductName, d.Products[j].ProductSKU = cur.Name, cur.SKU
				}
			}
		}
	}
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.product(ownerID, id)
	if cur == nil || cur.Stock != 0 || len(cur.DepotDistribution) > 0 {
		return apperror.ErrConflict
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) IsSKUUnique(_ context.Context, ownerID, sku, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.OwnerID == ownerID && p.SKU == sku && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *ProductRepository) Categories(_ context.Context, ownerID string) ([]string, error) {
	r.s.mu.RLock()
	seen := make(map[string]struct{})
	for _, p := range r.s.products {
		if p.OwnerID == ownerID && p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	r.s.mu.RUnlock()

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

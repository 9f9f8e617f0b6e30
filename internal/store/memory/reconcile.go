package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/pkg/errors"
)

type ReconcileRepository struct {
	s *Store
}

func (r *ReconcileRepository) Owners(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.s.products {
		seen[p.OwnerID] = struct{}{}
	}
	for _, d := range r.s.depots {
		seen[d.OwnerID] = struct{}{}
	}
	owners := make([]string, 0, len(seen))
	for o := range seen {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners, nil
}

func (r *ReconcileRepository) Load(_ context.Context, ownerID string) ([]model.Product, []model.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var products []model.Product
	for _, p := range r.s.products {
		if p.OwnerID == ownerID {
			products = append(products, *p.Clone())
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})

	var depots []model.Depot
	for _, d := range r.s.depots {
		if d.OwnerID == ownerID {
			depots = append(depots, *d.Clone())
		}
	}
	sort.Slice(depots, func(i, j int) bool {
		if depots[i].CreatedAt.Equal(depots[j].CreatedAt) {
			return depots[i].ID < depots[j].ID
		}
		return depots[i].CreatedAt.Before(depots[j].CreatedAt)
	})
	return products, depots, nil
}

func (r *ReconcileRepository) SaveProduct(_ context.Context, p *model.Product, readStock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.product(p.OwnerID, p.ID)
	if cur == nil || cur.Stock != readStock {
		return errors.Wrapf(apperror.ErrConflict, "product %s", p.ID)
	}
	cur.Stock = p.Stock
	cur.Status = p.Status
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *ReconcileRepository) SaveDepot(_ context.Context, d *model.Depot, readUtilization int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.depot(d.OwnerID, d.ID)
	if cur == nil || cur.CurrentUtilization != readUtilization {
		return errors.Wrapf(apperror.ErrConflict, "depot %s", d.ID)
	}
	cur.Products = append([]model.DepotStock(nil), d.Products...)
	ledger.Recount(cur)
	cur.UpdatedAt = d.UpdatedAt
	return nil
}

func (r *ReconcileRepository) SyncLinks(_ context.Context, ownerID string, links []model.DepotStock) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int
	for _, l := range links {
		p := r.s.product(ownerID, l.ProductID)
		if p == nil {
			continue
		}
		_, idx := p.DistributionFor(l.DepotID)
		if idx < 0 {
			continue
		}
		e := &p.DepotDistribution[idx]
		stale := e.ProductName != l.ProductName || e.ProductSKU != l.ProductSKU || e.DepotName != l.DepotName
		e.ProductName, e.ProductSKU, e.DepotName = l.ProductName, l.ProductSKU, l.DepotName

		if d := r.s.depot(ownerID, l.DepotID); d != nil {
			for i := range d.Products {
				v := &d.Products[i]
				if v.ProductID != l.ProductID {
					continue
				}
				if v.ProductName != l.ProductName || v.ProductSKU != l.ProductSKU || v.DepotName != l.DepotName {
					stale = true
				}
				v.ProductName, v.ProductSKU, v.DepotName = l.ProductName, l.ProductSKU, l.DepotName
			}
		}
		if stale {
			changed++
		}
	}
	return changed, nil
}

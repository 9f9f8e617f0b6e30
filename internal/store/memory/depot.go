package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type DepotRepository struct {
	s *Store
}

func (r *DepotRepository) Create(_ context.Context, d *model.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.depots[d.ID]; ok {
		return apperror.ErrConflict
	}
	r.s.depots[d.ID] = d.Clone()
	return nil
}

func (r *DepotRepository) FindByID(_ context.Context, ownerID, id string) (*model.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.depot(ownerID, id).Clone(), nil
}

func (r *DepotRepository) FindAll(_ context.Context, f *dto.DepotFilters) ([]model.Depot, int, error) {
	r.s.mu.RLock()
	var out []model.Depot
	for _, d := range r.s.depots {
		if d.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && string(d.Status) != f.Status {
			continue
		}
		if f.SearchQuery != "" && !containsFold(d.Name, f.SearchQuery) && !containsFold(d.Location, f.SearchQuery) {
			continue
		}
		out = append(out, *d.Clone())
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return page(out, f.Offset(), f.PageSize), len(out), nil
}

func (r *DepotRepository) Update(_ context.Context, d *model.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.depot(d.OwnerID, d.ID)
	if cur == nil || cur.CurrentUtilization != d.CurrentUtilization {
		return apperror.ErrConflict
	}
	cur.Name = d.Name
	cur.Location = d.Location
	cur.Capacity = d.Capacity
	cur.Status = d.Status
	cur.UpdatedAt = d.UpdatedAt

	for i := range cur.Products {
		cur.Products[i].DepotName = cur.Name
		if p := r.s.product(cur.OwnerID, cur.Products[i].ProductID); p != nil {
			if _, idx := p.DistributionFor(cur.ID); idx >= 0 {
				p.DepotDistribution[idx].DepotName = cur.Name
			}
		}
	}
	return nil
}

func (r *DepotRepository) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur := r.s.depot(ownerID, id)
	if cur == nil || cur.ItemsStored > 0 || len(cur.Products) > 0 {
		return apperror.ErrConflict
	}
	for _, p := range r.s.products {
		if p.OwnerID != ownerID {
			continue
		}
		if _, idx := p.DistributionFor(id); idx >= 0 {
			return apperror.ErrConflict
		}
	}
	delete(r.s.depots, id)
	return nil
}

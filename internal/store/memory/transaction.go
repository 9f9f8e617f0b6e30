package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

type TransactionRepository struct {
	s *Store
}

func (r *TransactionRepository) Commit(_ context.Context, c *model.StockChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := r.s.product(c.Product.OwnerID, c.Product.ID)
	if p == nil || p.Stock != c.PreviousStock {
		return apperror.ErrConflict
	}

	// Check every guard before writing anything.
	for _, e := range c.Entries {
		cur, idx := p.DistributionFor(e.Entry.DepotID)
		if (idx >= 0) != e.Existed || cur.Quantity != e.Previous {
			return apperror.ErrConflict
		}
		if e.Entry.Quantity > e.Previous && r.s.depot(p.OwnerID, e.Entry.DepotID) == nil {
			return apperror.ErrConflict
		}
	}

	for _, e := range c.Entries {
		r.s.applyEntry(p, e.Entry)
	}
	p.UpdatedAt = c.Transaction.Timestamp
	for _, id := range c.DepotIDs() {
		if d := r.s.depot(p.OwnerID, id); d != nil {
			d.UpdatedAt = c.Transaction.Timestamp
		}
	}

	r.s.transactions = append(r.s.transactions, *c.Transaction)
	return nil
}

func (r *TransactionRepository) FindAll(_ context.Context, f *dto.TransactionFilters) ([]model.Transaction, int, error) {
	r.s.mu.RLock()
	var out []model.Transaction
	for _, t := range r.s.transactions {
		if t.OwnerID != f.OwnerID {
			continue
		}
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		if f.DepotID != "" && !t.Touches(f.DepotID) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.From != nil && t.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !t.Timestamp.Before(*f.To) {
			continue
		}
		out = append(out, t)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return page(out, f.Offset(), f.PageSize), len(out), nil
}

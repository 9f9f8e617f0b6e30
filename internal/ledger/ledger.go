// Package ledger holds the stock consistency rules shared by every write path:
// a product's stock is the sum of its depot distribution, and each depot's product
// list is the same relation seen from the depot side. Functions here are pure and
// operate on in-memory copies; persistence happens elsewhere.
package ledger

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Overstock begins above this multiple of the reorder point.
const overstockFactor = 3

func DeriveStatus(stock, reorderPoint int64) model.ProductStatus {
	switch {
	case stock <= 0:
		return model.ProductOutOfStock
	case stock <= reorderPoint:
		return model.ProductLowStock
	case stock <= overstockFactor*reorderPoint:
		return model.ProductInStock
	default:
		return model.ProductOverstock
	}
}

// Recompute re-sums stock from the distribution and re-derives status.
func Recompute(p *model.Product) {
	var total int64
	for _, d := range p.DepotDistribution {
		total += d.Quantity
	}
	p.Stock = total
	p.Status = DeriveStatus(p.Stock, p.ReorderPoint)
}

// ApplyDistributionChange moves the product's quantity at depot by delta. The entry is
// created when absent and pruned when it reaches zero; a negative result is rejected
// and leaves p untouched.
func ApplyDistributionChange(p *model.Product, depot model.DepotRef, delta int64, now time.Time) (model.EntryChange, error) {
	current, idx := p.DistributionFor(depot.ID)
	next := current.Quantity + delta
	if next < 0 {
		return model.EntryChange{}, &apperror.InsufficientStockError{
			ProductID: p.ID,
			DepotID:   depot.ID,
			Requested: -delta,
			Available: current.Quantity,
		}
	}
	return setEntry(p, depot, idx, current.Quantity, next, now), nil
}

// SetDistribution overwrites the product's quantity at depot with an absolute count.
func SetDistribution(p *model.Product, depot model.DepotRef, quantity int64, now time.Time) (model.EntryChange, error) {
	if quantity < 0 {
		return model.EntryChange{}, apperror.Validation("quantity", "must not be negative")
	}
	current, idx := p.DistributionFor(depot.ID)
	return setEntry(p, depot, idx, current.Quantity, quantity, now), nil
}

func setEntry(p *model.Product, depot model.DepotRef, idx int, previous, next int64, now time.Time) model.EntryChange {
	entry := model.DepotStock{
		OwnerID:     p.OwnerID,
		ProductID:   p.ID,
		DepotID:     depot.ID,
		ProductName: p.Name,
		ProductSKU:  p.SKU,
		DepotName:   depot.Name,
		Quantity:    next,
		LastUpdated: now,
	}

	switch {
	case idx < 0 && next > 0:
		p.DepotDistribution = append(p.DepotDistribution, entry)
	case idx >= 0 && next == 0:
		p.DepotDistribution = append(p.DepotDistribution[:idx:idx], p.DepotDistribution[idx+1:]...)
	case idx >= 0:
		if depot.Name == "" {
			entry.DepotName = p.DepotDistribution[idx].DepotName
		}
		p.DepotDistribution[idx] = entry
	}
	Recompute(p)

	return model.EntryChange{Entry: entry, Previous: previous, Existed: idx >= 0}
}

package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	s *Store
}

func (r *DashboardRepository) Stats(_ context.Context, ownerID string) (*dto.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &dto.Stats{TotalValue: decimal.Zero}
	for _, p := range r.s.products {
		if p.OwnerID != ownerID {
			continue
		}
		stats.TotalProducts++
		switch p.Status {
		case model.ProductLowStock:
			stats.LowStockCount++
		case model.ProductOutOfStock:
			stats.OutOfStockCount++
		}
		stats.TotalValue = stats.TotalValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(p.Stock)))
	}
	for _, d := range r.s.depots {
		if d.OwnerID == ownerID {
			stats.TotalDepots++
		}
	}
	for _, a := range r.s.alerts {
		if a.OwnerID == ownerID && !a.IsRead {
			stats.UnreadAlerts++
		}
	}
	return stats, nil
}

func (r *DashboardRepository) MostStocked(_ context.Context, ownerID string, limit int) ([]dto.StockedProduct, error) {
	r.s.mu.RLock()
	var owned []*model.Product
	for _, p := range r.s.products {
		if p.OwnerID == ownerID {
			owned = append(owned, p)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].Stock != owned[j].Stock {
			return owned[i].Stock > owned[j].Stock
		}
		return owned[i].ID < owned[j].ID
	})

	out := make([]dto.StockedProduct, 0, len(owned))
	for _, p := range page(owned, 0, limit) {
		out = append(out, dto.StockedProduct{
			SKU:        p.SKU,
			Name:       p.Name,
			Category:   p.Category,
			Stock:      p.Stock,
			DailySales: p.DailySales,
		})
	}
	r.s.mu.RUnlock()
	return out, nil
}

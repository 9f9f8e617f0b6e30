package usecase

import (
	"context"
	"math"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard"
	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	topSKULimit = 10

	// Demand assumed for products without recorded sales.
	defaultDailySales = 5
	forecastDays      = 7
)

type dashboardUseCase struct {
	repo   dashboard.Repository
	logger logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{repo: repo, logger: log}
}

func (uc *dashboardUseCase) GetStats(ctx context.Context, ownerID string) (*dto.Stats, error) {
	stats, err := uc.repo.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Dashboard stats",
		zap.String("owner_id", ownerID),
		zap.Int("products", stats.TotalProducts),
		zap.Int("low_stock", stats.LowStockCount),
	)
	return stats, nil
}

func (uc *dashboardUseCase) TopSKUs(ctx context.Context, ownerID string) ([]dto.TopSKU, error) {
	products, err := uc.repo.MostStocked(ctx, ownerID, topSKULimit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TopSKU, 0, len(products))
	for _, p := range products {
		daily := p.DailySales
		if daily <= 0 {
			daily = defaultDailySales
		}
		out = append(out, dto.TopSKU{
			SKU:             p.SKU,
			Name:            p.Name,
			Category:        p.Category,
			CurrentStock:    p.Stock,
			PredictedDemand: int64(math.Round(daily * forecastDays)),
		})
	}
	return out, nil
}

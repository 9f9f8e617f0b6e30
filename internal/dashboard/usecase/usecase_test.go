package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/store/memory"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

func product(id, ownerID string, price string, stock int64, status model.ProductStatus, daily float64) model.Product {
	p := model.Product{
		OwnerID:    ownerID,
		SKU:        "SKU-" + id,
		Name:       "Product " + id,
		Category:   "tools",
		UnitPrice:  decimal.RequireFromString(price),
		Stock:      stock,
		Status:     status,
		DailySales: daily,
	}
	p.ID = id
	return p
}

func depot(id, ownerID string) model.Depot {
	d := model.Depot{OwnerID: ownerID, Name: "Depot " + id, Capacity: 100, Status: model.DepotNormal}
	d.ID = id
	return d
}

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	store.Seed(
		[]model.Product{
			product("p1", owner, "12.50", 10, model.ProductInStock, 2),
			product("p2", owner, "3", 4, model.ProductLowStock, 0),
			product("p3", owner, "100", 0, model.ProductOutOfStock, 1.3),
			product("p4", "owner-2", "1", 999, model.ProductOverstock, 0),
		},
		[]model.Depot{depot("d1", owner), depot("d2", owner), depot("d3", "owner-2")},
	)

	ctx := context.Background()
	alerts := store.Alerts()
	for i, subject := range []string{"p2", "p3", "p4"} {
		id := subject
		ownerID := owner
		if subject == "p4" {
			ownerID = "owner-2"
		}
		require.NoError(t, alerts.Create(ctx, &model.Alert{
			ID: "alert-" + subject, OwnerID: ownerID, Type: model.AlertLowStock,
			Severity: model.SeverityMedium, ProductID: &id,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, alerts.MarkRead(ctx, owner, "alert-p2"))
	return store
}

func TestGetStats(t *testing.T) {
	uc := NewDashboardUseCase(seeded(t).Dashboard(), logger.NewNop())

	stats, err := uc.GetStats(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.OutOfStockCount)
	assert.Equal(t, 2, stats.TotalDepots)
	assert.Equal(t, 1, stats.UnreadAlerts)
	assert.True(t, decimal.RequireFromString("137").Equal(stats.TotalValue), stats.TotalValue.String())
}

func TestGetStats_EmptyOwner(t *testing.T) {
	uc := NewDashboardUseCase(seeded(t).Dashboard(), logger.NewNop())

	stats, err := uc.GetStats(context.Background(), "owner-3")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.True(t, stats.TotalValue.IsZero())
}

func TestTopSKUs(t *testing.T) {
	uc := NewDashboardUseCase(seeded(t).Dashboard(), logger.NewNop())

	skus, err := uc.TopSKUs(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, skus, 3)

	assert.Equal(t, "SKU-p1", skus[0].SKU)
	assert.Equal(t, int64(10), skus[0].CurrentStock)
	assert.Equal(t, int64(14), skus[0].PredictedDemand)

	// No recorded sales falls back to the default daily demand.
	assert.Equal(t, "SKU-p2", skus[1].SKU)
	assert.Equal(t, int64(35), skus[1].PredictedDemand)

	assert.Equal(t, "SKU-p3", skus[2].SKU)
	assert.Equal(t, int64(9), skus[2].PredictedDemand)
}

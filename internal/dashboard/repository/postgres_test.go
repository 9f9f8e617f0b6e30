package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_ScansAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPGRepository(sqlx.NewDb(db, "postgres"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(unit_price * stock), 0)")).
		WithArgs("owner-1", string(model.ProductLowStock), string(model.ProductOutOfStock)).
		WillReturnRows(sqlmock.NewRows([]string{
			"total_products", "low_stock_count", "out_of_stock_count", "total_depots", "unread_alerts", "total_value",
		}).AddRow(3, 1, 1, 2, 4, "137.00"))

	stats, err := repo.Stats(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 4, stats.UnreadAlerts)
	assert.True(t, decimal.RequireFromString("137").Equal(stats.TotalValue))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Stats(ctx context.Context, ownerID string) (*dto.Stats, error) {
	var stats dto.Stats
	query := `
        SELECT
            (SELECT count(*) FROM products WHERE owner_id = $1) AS total_products,
            (SELECT count(*) FROM products WHERE owner_id = $1 AND status = $2) AS low_stock_count,
            (SELECT count(*) FROM products WHERE owner_id = $1 AND status = $3) AS out_of_stock_count,
            (SELECT count(*) FROM depots WHERE owner_id = $1) AS total_depots,
            (SELECT count(*) FROM alerts WHERE owner_id = $1 AND NOT is_read) AS unread_alerts,
            (SELECT COALESCE(SUM(unit_price * stock), 0) FROM products WHERE owner_id = $1) AS total_value
    `
	err := r.DB.GetContext(ctx, &stats, query, ownerID, model.ProductLowStock, model.ProductOutOfStock)
	if err != nil {
		return nil, errors.Wrap(err, "select dashboard stats")
	}
	return &stats, nil
}

func (r *PGRepository) MostStocked(ctx context.Context, ownerID string, limit int) ([]dto.StockedProduct, error) {
	products := []dto.StockedProduct{}
	err := r.DB.SelectContext(ctx, &products, `
        SELECT sku, name, category, stock, daily_sales FROM products
        WHERE owner_id = $1
        ORDER BY stock DESC, id
        LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select most stocked products")
	}
	return products, nil
}

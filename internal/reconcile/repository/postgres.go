package repository

import (
	"context"
	"database/sql"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const productColumns = `id, owner_id, sku, name, category, unit_price, reorder_point, supplier, brand,
	lead_time_days, daily_sales, weekly_sales, image_url, stock, status, created_at, updated_at`

const depotColumns = `id, owner_id, name, location, capacity, current_utilization, items_stored, status, created_at, updated_at`

const stockColumns = `owner_id, product_id, depot_id, product_name, product_sku, depot_name, quantity, last_updated`

// PGRepository reads the depot stock relation directly. Since both projections are
// the same rows in SQL, a rebuilt depot view only needs its counters written back.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Owners(ctx context.Context) ([]string, error) {
	var owners []string
	err := r.DB.SelectContext(ctx, &owners, `
        SELECT owner_id FROM products
        UNION
        SELECT owner_id FROM depots
        ORDER BY owner_id`)
	return owners, errors.Wrap(err, "select owners")
}

func (r *PGRepository) Load(ctx context.Context, ownerID string) ([]model.Product, []model.Depot, error) {
	var (
		products []model.Product
		depots   []model.Depot
		rows     []model.DepotStock
	)

	// One snapshot for all three reads.
	snapshot := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := postgres.InTx(ctx, r.DB, snapshot, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &products,
			`SELECT `+productColumns+` FROM products WHERE owner_id = $1 ORDER BY created_at, id`, ownerID); err != nil {
			return errors.Wrap(err, "select products")
		}
		if err := tx.SelectContext(ctx, &depots,
			`SELECT `+depotColumns+` FROM depots WHERE owner_id = $1 ORDER BY created_at, id`, ownerID); err != nil {
			return errors.Wrap(err, "select depots")
		}
		return errors.Wrap(tx.SelectContext(ctx, &rows,
			`SELECT `+stockColumns+` FROM depot_stock WHERE owner_id = $1 ORDER BY created_at, depot_id`, ownerID),
			"select depot stock")
	})
	if err != nil {
		return nil, nil, err
	}

	productIdx := make(map[string]int, len(products))
	for i := range products {
		productIdx[products[i].ID] = i
	}
	depotIdx := make(map[string]int, len(depots))
	for i := range depots {
		depotIdx[depots[i].ID] = i
	}

	for _, row := range rows {
		if i, ok := productIdx[row.ProductID]; ok {
			products[i].DepotDistribution = append(products[i].DepotDistribution, row)
		}
		if i, ok := depotIdx[row.DepotID]; ok {
			depots[i].Products = append(depots[i].Products, row)
		}
	}
	return products, depots, nil
}

func (r *PGRepository) SaveProduct(ctx context.Context, p *model.Product, readStock int64) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE products SET stock = $3, status = $4, updated_at = $5
        WHERE owner_id = $1 AND id = $2 AND stock = $6`,
		p.OwnerID, p.ID, p.Stock, p.Status, p.UpdatedAt, readStock)
	if err != nil {
		return errors.Wrapf(err, "update product %s", p.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(apperror.ErrConflict, "product %s", p.ID)
	}
	return nil
}

func (r *PGRepository) SaveDepot(ctx context.Context, d *model.Depot, readUtilization int64) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE depots SET current_utilization = $3, items_stored = $4, status = $5, updated_at = $6
        WHERE owner_id = $1 AND id = $2 AND current_utilization = $7`,
		d.OwnerID, d.ID, d.CurrentUtilization, d.ItemsStored, d.Status, d.UpdatedAt, readUtilization)
	if err != nil {
		return errors.Wrapf(err, "update depot %s", d.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(apperror.ErrConflict, "depot %s", d.ID)
	}
	return nil
}

func (r *PGRepository) SyncLinks(ctx context.Context, ownerID string, links []model.DepotStock) (int, error) {
	var changed int
	for _, l := range links {
		res, err := r.DB.ExecContext(ctx, `
            UPDATE depot_stock SET product_name = $4, product_sku = $5, depot_name = $6
            WHERE owner_id = $1 AND product_id = $2 AND depot_id = $3
              AND (product_name <> $4 OR product_sku <> $5 OR depot_name <> $6)`,
			ownerID, l.ProductID, l.DepotID, l.ProductName, l.ProductSKU, l.DepotName)
		if err != nil {
			return changed, errors.Wrapf(err, "sync link %s/%s", l.ProductID, l.DepotID)
		}
		n, _ := res.RowsAffected()
		changed += int(n)
	}
	return changed, nil
}

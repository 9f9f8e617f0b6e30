package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const transactionColumns = `id, owner_id, product_id, product_sku, product_name, transaction_type, quantity,
	from_depot_id, from_depot_name, to_depot_id, to_depot_name, previous_stock, new_stock,
	reason, notes, performed_by, occurred_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type lockedDepot struct {
	ID       string `db:"id"`
	Capacity int64  `db:"capacity"`
}

func (r *PGRepository) Commit(ctx context.Context, c *model.StockChange) error {
	return postgres.InTx(ctx, r.DB, nil, func(tx *sqlx.Tx) error {
		return commitChange(ctx, tx, c)
	})
}

func commitChange(ctx context.Context, tx *sqlx.Tx, c *model.StockChange) error {
	var err error
	p := c.Product

	// 1. Lock touched depots in id order so concurrent commits cannot deadlock and
	// counter recounts below see each other's committed rows.
	depotIDs := c.DepotIDs()
	sort.Strings(depotIDs)
	var locked []lockedDepot
	if len(depotIDs) > 0 {
		err = tx.SelectContext(ctx, &locked, `
            SELECT id, capacity FROM depots
            WHERE owner_id = $1 AND id = ANY($2)
            ORDER BY id
            FOR UPDATE`, p.OwnerID, pq.Array(depotIDs))
		if err != nil {
			return errors.Wrap(err, "lock depots")
		}
	}
	present := make(map[string]bool, len(locked))
	for _, d := range locked {
		present[d.ID] = true
	}

	// 2. Product stock, guarded by the stock the caller computed from.
	res, err := tx.ExecContext(ctx, `
        UPDATE products SET stock = $3, status = $4, updated_at = $5
        WHERE owner_id = $1 AND id = $2 AND stock = $6`,
		p.OwnerID, p.ID, p.Stock, p.Status, c.Transaction.Timestamp, c.PreviousStock)
	if err != nil {
		return errors.Wrap(err, "update product stock")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}

	// 3. Relation rows, each guarded by its previous quantity.
	for _, e := range c.Entries {
		if e.Entry.Quantity > e.Previous && !present[e.Entry.DepotID] {
			// Stock cannot move into a depot deleted since the read.
			return apperror.ErrConflict
		}
		if err := writeEntry(ctx, tx, e); err != nil {
			return err
		}
	}

	// 4. Depot counters from the full relation.
	for _, d := range locked {
		if err := recountDepot(ctx, tx, p.OwnerID, d, c.Transaction.Timestamp); err != nil {
			return err
		}
	}

	// 5. The transaction itself.
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stock_transactions (`+transactionColumns+`)
        VALUES (
            :id, :owner_id, :product_id, :product_sku, :product_name, :transaction_type, :quantity,
            :from_depot_id, :from_depot_name, :to_depot_id, :to_depot_name, :previous_stock, :new_stock,
            :reason, :notes, :performed_by, :occurred_at
        )`, c.Transaction)
	if err != nil {
		return errors.Wrap(err, "insert transaction")
	}
	return nil
}

func writeEntry(ctx context.Context, tx *sqlx.Tx, e model.EntryChange) error {
	s := e.Entry
	var (
		query string
		args  []interface{}
	)
	switch {
	case !e.Existed && s.Quantity == 0:
		return nil
	case !e.Existed:
		query = `
            INSERT INTO depot_stock (owner_id, product_id, depot_id, product_name, product_sku, depot_name, quantity, last_updated)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT DO NOTHING`
		args = []interface{}{s.OwnerID, s.ProductID, s.DepotID, s.ProductName, s.ProductSKU, s.DepotName, s.Quantity, s.LastUpdated}
	case s.Quantity == 0:
		query = `DELETE FROM depot_stock WHERE owner_id = $1 AND product_id = $2 AND depot_id = $3 AND quantity = $4`
		args = []interface{}{s.OwnerID, s.ProductID, s.DepotID, e.Previous}
	default:
		query = `
            UPDATE depot_stock
            SET quantity = $4, product_name = $5, product_sku = $6, depot_name = $7, last_updated = $8
            WHERE owner_id = $1 AND product_id = $2 AND depot_id = $3 AND quantity = $9`
		args = []interface{}{s.OwnerID, s.ProductID, s.DepotID, s.Quantity, s.ProductName, s.ProductSKU, s.DepotName, s.LastUpdated, e.Previous}
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "write depot stock %s/%s", s.ProductID, s.DepotID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func recountDepot(ctx context.Context, tx *sqlx.Tx, ownerID string, d lockedDepot, now time.Time) error {
	var sums struct {
		Utilization int64 `db:"utilization"`
		Items       int   `db:"items"`
	}
	err := tx.GetContext(ctx, &sums, `
        SELECT COALESCE(SUM(quantity), 0) AS utilization, COUNT(*) AS items
        FROM depot_stock WHERE owner_id = $1 AND depot_id = $2`, ownerID, d.ID)
	if err != nil {
		return errors.Wrap(err, "sum depot stock")
	}

	status := ledger.DeriveDepotStatus(sums.Utilization, d.Capacity)
	_, err = tx.ExecContext(ctx, `
        UPDATE depots SET current_utilization = $3, items_stored = $4, status = $5, updated_at = $6
        WHERE owner_id = $1 AND id = $2`,
		ownerID, d.ID, sums.Utilization, sums.Items, status, now)
	return errors.Wrap(err, "update depot counters")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, int, error) {
	var txs []model.Transaction
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.DepotID != "" {
		conditions = append(conditions, "(from_depot_id = :depot_id OR to_depot_id = :depot_id)")
		args["depot_id"] = f.DepotID
	}
	if f.Type != "" {
		conditions = append(conditions, "transaction_type = :transaction_type")
		args["transaction_type"] = f.Type
	}
	if f.From != nil {
		conditions = append(conditions, "occurred_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "occurred_at < :to")
		args["to"] = *f.To
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM stock_transactions"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count transactions")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM stock_transactions%s ORDER BY occurred_at DESC, id", transactionColumns, whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, f.Offset())
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare transaction list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &txs, args); err != nil {
		return nil, 0, errors.Wrap(err, "select transactions")
	}
	return txs, count, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const depotColumns = `id, owner_id, name, location, capacity, current_utilization, items_stored, status, created_at, updated_at`

const stockColumns = `owner_id, product_id, depot_id, product_name, product_sku, depot_name, quantity, last_updated`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, d *model.Depot) error {
	query := `
        INSERT INTO depots (
            id, owner_id, name, location, capacity, current_utilization, items_stored, status, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :name, :location, :capacity, :current_utilization, :items_stored, :status, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, d)
	return errors.Wrap(err, "insert depot")
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Depot, error) {
	var depot model.Depot
	query := `SELECT ` + depotColumns + ` FROM depots WHERE owner_id = $1 AND id = $2 LIMIT 1`
	if err := r.DB.GetContext(ctx, &depot, query, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select depot")
	}

	depots := []model.Depot{depot}
	if err := attachProducts(ctx, r.DB, ownerID, depots); err != nil {
		return nil, err
	}
	return &depots[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.DepotFilters) ([]model.Depot, int, error) {
	var depots []model.Depot
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR location ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM depots"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count depots")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM depots%s ORDER BY name, id", depotColumns, whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, f.Offset())
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare depot list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &depots, args); err != nil {
		return nil, 0, errors.Wrap(err, "select depots")
	}
	if err := attachProducts(ctx, r.DB, f.OwnerID, depots); err != nil {
		return nil, 0, err
	}
	return depots, count, nil
}

func (r *PGRepository) Update(ctx context.Context, d *model.Depot) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `
        UPDATE depots
        SET name = :name,
            location = :location,
            capacity = :capacity,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id AND current_utilization = :current_utilization
    `, d)
	if err != nil {
		return errors.Wrap(err, "update depot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE depot_stock SET depot_name = $3
        WHERE owner_id = $1 AND depot_id = $2 AND depot_name <> $3`,
		d.OwnerID, d.ID, d.Name)
	if err != nil {
		return errors.Wrap(err, "refresh relation names")
	}

	return errors.Wrap(tx.Commit(), "commit depot update")
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM depots
        WHERE owner_id = $1 AND id = $2 AND items_stored = 0
          AND NOT EXISTS (SELECT 1 FROM depot_stock WHERE owner_id = $1 AND depot_id = $2)`,
		ownerID, id)
	if err != nil {
		return errors.Wrap(err, "delete depot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func attachProducts(ctx context.Context, q sqlx.QueryerContext, ownerID string, depots []model.Depot) error {
	if len(depots) == 0 {
		return nil
	}
	ids := make([]string, len(depots))
	idx := make(map[string]int, len(depots))
	for i, d := range depots {
		ids[i] = d.ID
		idx[d.ID] = i
	}

	var rows []model.DepotStock
	query := `SELECT ` + stockColumns + ` FROM depot_stock
        WHERE owner_id = $1 AND depot_id = ANY($2)
        ORDER BY product_id`
	if err := sqlx.SelectContext(ctx, q, &rows, query, ownerID, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "select depot products")
	}

	for _, row := range rows {
		i := idx[row.DepotID]
		depots[i].Products = append(depots[i].Products, row)
	}
	return nil
}

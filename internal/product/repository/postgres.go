package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const productColumns = `id, owner_id, sku, name, category, unit_price, reorder_point, supplier, brand,
	lead_time_days, daily_sales, weekly_sales, image_url, stock, status, created_at, updated_at`

const stockColumns = `owner_id, product_id, depot_id, product_name, product_sku, depot_name, quantity, last_updated`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, owner_id, sku, name, category, unit_price, reorder_point, supplier, brand,
            lead_time_days, daily_sales, weekly_sales, image_url, stock, status, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :sku, :name, :category, :unit_price, :reorder_point, :supplier, :brand,
            :lead_time_days, :daily_sales, :weekly_sales, :image_url, :stock, :status, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "insert product")
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select product")
	}

	products := []model.Product{product}
	if err := attachDistributions(ctx, r.DB, ownerID, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.DepotID != "" {
		conditions = append(conditions, `EXISTS (
            SELECT 1 FROM depot_stock ds
            WHERE ds.owner_id = products.owner_id AND ds.product_id = products.id AND ds.depot_id = :depot_id)`)
		args["depot_id"] = f.DepotID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "sku":
			orderBy = "sku"
		case "stock":
			orderBy = "stock"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s, id", productColumns, whereClause, orderBy)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, f.Offset())
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare product list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, errors.Wrap(err, "select products")
	}
	if err := attachDistributions(ctx, r.DB, f.OwnerID, products); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	query := `
        UPDATE products
        SET sku = :sku,
            name = :name,
            category = :category,
            unit_price = :unit_price,
            reorder_point = :reorder_point,
            supplier = :supplier,
            brand = :brand,
            lead_time_days = :lead_time_days,
            daily_sales = :daily_sales,
            weekly_sales = :weekly_sales,
            image_url = :image_url,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id AND stock = :stock
    `
	res, err := tx.NamedExecContext(ctx, query, p)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}

	// Relation rows cache the product name and sku.
	_, err = tx.ExecContext(ctx, `
        UPDATE depot_stock SET product_name = $3, product_sku = $4
        WHERE owner_id = $1 AND product_id = $2 AND (product_name <> $3 OR product_sku <> $4)`,
		p.OwnerID, p.ID, p.Name, p.SKU)
	if err != nil {
		return errors.Wrap(err, "refresh relation names")
	}

	return errors.Wrap(tx.Commit(), "commit product update")
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM products
        WHERE owner_id = $1 AND id = $2 AND stock = 0
          AND NOT EXISTS (SELECT 1 FROM depot_stock WHERE owner_id = $1 AND product_id = $2)`,
		ownerID, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, ownerID, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE owner_id = $1 AND sku = $2`
	args := []interface{}{ownerID, sku}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, errors.Wrap(err, "check sku")
	}
	return count == 0, nil
}

func (r *PGRepository) Categories(ctx context.Context, ownerID string) ([]string, error) {
	categories := []string{}
	err := r.DB.SelectContext(ctx, &categories, `
        SELECT DISTINCT category FROM products
        WHERE owner_id = $1 AND category <> ''
        ORDER BY category`, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "select categories")
	}
	return categories, nil
}

// attachDistributions loads the relation rows of every product in one query, in
// insertion order.
func attachDistributions(ctx context.Context, q sqlx.QueryerContext, ownerID string, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	idx := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		idx[p.ID] = i
	}

	var rows []model.DepotStock
	query := `SELECT ` + stockColumns + ` FROM depot_stock
        WHERE owner_id = $1 AND product_id = ANY($2)
        ORDER BY created_at, depot_id`
	if err := sqlx.SelectContext(ctx, q, &rows, query, ownerID, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "select distributions")
	}

	for _, row := range rows {
		i := idx[row.ProductID]
		products[i].DepotDistribution = append(products[i].DepotDistribution, row)
	}
	return nil
}

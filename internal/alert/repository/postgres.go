package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const alertColumns = `id, owner_id, alert_type, title, description, severity, product_id, depot_id,
	is_read, is_resolved, resolved_at, resolved_by, resolution_notes, created_at`

// uniqueViolation is the SQLSTATE raised by the open-alert unique index.
const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Alert) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO alerts (`+alertColumns+`)
        VALUES (
            :id, :owner_id, :alert_type, :title, :description, :severity, :product_id, :depot_id,
            :is_read, :is_resolved, :resolved_at, :resolved_by, :resolution_notes, :created_at
        )`, a)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperror.ErrConflict
	}
	return errors.Wrap(err, "insert alert")
}

func (r *PGRepository) FindOpen(ctx context.Context, ownerID, subjectID string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.DB.SelectContext(ctx, &alerts, `
        SELECT `+alertColumns+` FROM alerts
        WHERE owner_id = $1 AND NOT is_resolved AND (product_id = $2 OR depot_id = $2)
        ORDER BY created_at`, ownerID, subjectID)
	return alerts, errors.Wrap(err, "select open alerts")
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Alert, error) {
	var a model.Alert
	err := r.DB.GetContext(ctx, &a, `SELECT `+alertColumns+` FROM alerts WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select alert")
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.Alert, int, error) {
	var alerts []model.Alert
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Type != "" {
		conditions = append(conditions, "alert_type = :alert_type")
		args["alert_type"] = f.Type
	}
	if f.Severity != "" {
		conditions = append(conditions, "severity = :severity")
		args["severity"] = f.Severity
	}
	if f.SubjectID != "" {
		conditions = append(conditions, "(product_id = :subject_id OR depot_id = :subject_id)")
		args["subject_id"] = f.SubjectID
	}
	if f.IsRead != nil {
		conditions = append(conditions, "is_read = :is_read")
		args["is_read"] = *f.IsRead
	}
	if f.IsResolved != nil {
		conditions = append(conditions, "is_resolved = :is_resolved")
		args["is_resolved"] = *f.IsResolved
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM alerts"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count alerts")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM alerts%s ORDER BY created_at DESC, id", alertColumns, whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, f.Offset())
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare alert list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &alerts, args); err != nil {
		return nil, 0, errors.Wrap(err, "select alerts")
	}
	return alerts, count, nil
}

func (r *PGRepository) MarkRead(ctx context.Context, ownerID, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE alerts SET is_read = TRUE WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return errors.Wrap(err, "mark alert read")
}

func (r *PGRepository) Resolve(ctx context.Context, ownerID, id, by string, notes *string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE alerts
        SET is_resolved = TRUE, resolved_at = $3, resolved_by = $4, resolution_notes = $5
        WHERE owner_id = $1 AND id = $2 AND NOT is_resolved`,
		ownerID, id, at, by, notes)
	if err != nil {
		return false, errors.Wrap(err, "resolve alert")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

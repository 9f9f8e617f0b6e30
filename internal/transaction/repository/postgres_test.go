package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner   = "owner-1"
	product = "prod-1"
	depotA  = "depot-a"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

// stockOut takes 10 units out of depot-a, which held 30.
func stockOut(existed bool, newQty int64) *model.StockChange {
	now := time.Now().UTC()
	p := &model.Product{OwnerID: owner, SKU: "BOLT", Name: "Bolt", Stock: 20, Status: model.ProductInStock}
	p.ID = product
	from := depotA
	return &model.StockChange{
		Product:       p,
		PreviousStock: 30,
		Entries: []model.EntryChange{{
			Entry: model.DepotStock{
				OwnerID: owner, ProductID: product, DepotID: depotA,
				ProductName: "Bolt", ProductSKU: "BOLT", DepotName: "A",
				Quantity: newQty, LastUpdated: now,
			},
			Previous: 30,
			Existed:  existed,
		}},
		Transaction: &model.Transaction{
			ID: "tx-1", OwnerID: owner, ProductID: product, Type: model.TransactionStockOut,
			Quantity: 10, FromDepotID: &from, PreviousStock: 30, NewStock: 20, Timestamp: now,
		},
	}
}

func expectDepotLock(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM depots")).
		WithArgs(owner, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).AddRow(depotA, 100))
}

func expectProductUpdate(mock sqlmock.Sqlmock, affected int64) {
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = $3")).
		WithArgs(owner, product, int64(20), string(model.ProductInStock), sqlmock.AnyArg(), int64(30)).
		WillReturnResult(sqlmock.NewResult(0, affected))
}

func TestCommit_AppliesEveryWriteInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectDepotLock(mock)
	expectProductUpdate(mock, 1)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE depot_stock")).
		WithArgs(owner, product, depotA, int64(20), "Bolt", "BOLT", "A", sqlmock.AnyArg(), int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(quantity), 0)")).
		WithArgs(owner, depotA).
		WillReturnRows(sqlmock.NewRows([]string{"utilization", "items"}).AddRow(20, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE depots SET current_utilization")).
		WithArgs(owner, depotA, int64(20), 1, string(model.DepotNormal), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_transactions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Commit(context.Background(), stockOut(true, 20)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_StaleProductStockIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectDepotLock(mock)
	expectProductUpdate(mock, 0)
	mock.ExpectRollback()

	err := repo.Commit(context.Background(), stockOut(true, 20))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_StaleDepotQuantityIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectDepotLock(mock)
	expectProductUpdate(mock, 1)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE depot_stock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Commit(context.Background(), stockOut(true, 20))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_DrainedRowDeleteGuardedByQuantity(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectDepotLock(mock)
	expectProductUpdate(mock, 1)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM depot_stock")).
		WithArgs(owner, product, depotA, int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Commit(context.Background(), stockOut(true, 0))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_ConcurrentInsertOfNewRowIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectDepotLock(mock)
	expectProductUpdate(mock, 1)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO depot_stock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Commit(context.Background(), stockOut(false, 20))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

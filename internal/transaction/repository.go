package transaction

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

// Repository is append-only for transactions: there is no update or delete.
type Repository interface {
	// Commit writes a stock change atomically: the product's stock and status, every
	// relation row in change.Entries, the touched depots' counters and the transaction.
	// Each write is guarded by the value the caller read; if any guard fails nothing
	// is written and apperror.ErrConflict is returned.
	Commit(ctx context.Context, change *model.StockChange) error
	FindAll(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
}

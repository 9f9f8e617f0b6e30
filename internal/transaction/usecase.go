package transaction

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

// UseCase is the only write path for stock quantities.
type UseCase interface {
	RecordStockChange(ctx context.Context, input *dto.RecordInput) (*dto.RecordResult, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
}

// ProductSync is told about every product whose stock changed, after commit.
type ProductSync interface {
	Invalidate(ctx context.Context, ownerID string)
	Index(ctx context.Context, p *model.Product)
}

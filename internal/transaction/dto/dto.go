package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type TransactionFilters struct {
	OwnerID   string
	ProductID string
	DepotID   string // matches either side of a transfer
	Type      model.TransactionType
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

func (f *TransactionFilters) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// TransactionSummary is the part of a recorded transaction echoed back to the caller.
type TransactionSummary struct {
	ID            string                `json:"id"`
	Type          model.TransactionType `json:"type"`
	Quantity      int64                 `json:"quantity"`
	PreviousStock int64                 `json:"previous_stock"`
	NewStock      int64                 `json:"new_stock"`
	Timestamp     time.Time             `json:"timestamp"`
}

type RecordResult struct {
	Product     model.ProductSnapshot `json:"product"`
	Transaction TransactionSummary    `json:"transaction"`
}

package model

import "time"

type TransactionType string

const (
	TransactionStockIn    TransactionType = "stock-in"
	TransactionStockOut   TransactionType = "stock-out"
	TransactionTransfer   TransactionType = "transfer"
	TransactionAdjustment TransactionType = "adjustment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionStockIn, TransactionStockOut, TransactionTransfer, TransactionAdjustment:
		return true
	}
	return false
}

// Transaction is write-once. Repositories expose no update or delete for it.
type Transaction struct {
	ID            string          `db:"id" json:"id"`
	OwnerID       string          `db:"owner_id" json:"owner_id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	ProductSKU    string          `db:"product_sku" json:"product_sku"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Type          TransactionType `db:"transaction_type" json:"type"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	FromDepotID   *string         `db:"from_depot_id" json:"from_depot_id,omitempty"`
	FromDepotName *string         `db:"from_depot_name" json:"from_depot,omitempty"`
	ToDepotID     *string         `db:"to_depot_id" json:"to_depot_id,omitempty"`
	ToDepotName   *string         `db:"to_depot_name" json:"to_depot,omitempty"`
	PreviousStock int64           `db:"previous_stock" json:"previous_stock"`
	NewStock      int64           `db:"new_stock" json:"new_stock"`
	Reason        string          `db:"reason" json:"reason"`
	Notes         string          `db:"notes" json:"notes"`
	PerformedBy   string          `db:"performed_by" json:"performed_by"`
	Timestamp     time.Time       `db:"occurred_at" json:"timestamp"`
}

// Touches reports whether the transaction moved stock in or out of depotID.
func (t *Transaction) Touches(depotID string) bool {
	return (t.FromDepotID != nil && *t.FromDepotID == depotID) ||
		(t.ToDepotID != nil && *t.ToDepotID == depotID)
}

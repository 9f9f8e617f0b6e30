package model

import "time"

// DepotStock is one tuple of the product/depot relation. A product's DepotDistribution
// and a depot's Products are both lists of these, grouped differently.
type DepotStock struct {
	OwnerID     string    `db:"owner_id" json:"-"`
	ProductID   string    `db:"product_id" json:"product_id"`
	DepotID     string    `db:"depot_id" json:"depot_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ProductSKU  string    `db:"product_sku" json:"product_sku"`
	DepotName   string    `db:"depot_name" json:"depot_name"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// EntryChange is a guarded write against one relation tuple. Previous is the quantity
// the writer observed (0 with Existed=false for a new tuple); a tuple whose new
// Quantity is 0 is removed.
type EntryChange struct {
	Entry    DepotStock
	Previous int64
	Existed  bool
}

// StockChange is everything one recorded transaction writes, committed atomically.
type StockChange struct {
	Product       *Product
	PreviousStock int64
	Entries       []EntryChange
	Transaction   *Transaction
}

// DepotIDs returns the distinct depots touched by the change, in entry order.
func (c *StockChange) DepotIDs() []string {
	seen := make(map[string]struct{}, len(c.Entries))
	ids := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		if _, ok := seen[e.Entry.DepotID]; ok {
			continue
		}
		seen[e.Entry.DepotID] = struct{}{}
		ids = append(ids, e.Entry.DepotID)
	}
	return ids
}

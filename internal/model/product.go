package model

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductOutOfStock ProductStatus = "out-of-stock"
	ProductLowStock   ProductStatus = "low-stock"
	ProductInStock    ProductStatus = "in-stock"
	ProductOverstock  ProductStatus = "overstock"
)

type Product struct {
	BaseModel
	OwnerID      string          `db:"owner_id" json:"owner_id"`
	SKU          string          `db:"sku" json:"sku"`
	Name         string          `db:"name" json:"name"`
	Category     string          `db:"category" json:"category"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	ReorderPoint int64           `db:"reorder_point" json:"reorder_point"`
	Supplier     string          `db:"supplier" json:"supplier"`
	Brand        string          `db:"brand" json:"brand"`
	LeadTimeDays int             `db:"lead_time_days" json:"lead_time_days"`
	DailySales   float64         `db:"daily_sales" json:"daily_sales"`
	WeeklySales  float64         `db:"weekly_sales" json:"weekly_sales"`
	ImageURL     *string         `db:"image_url" json:"image_url"`
	Stock        int64           `db:"stock" json:"stock"`
	Status       ProductStatus   `db:"status" json:"status"`

	// Projection of the depot stock relation by product.
	DepotDistribution []DepotStock `db:"-" json:"depot_distribution"`
}

// Clone returns a deep copy so ledger computations never touch the caller's snapshot.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.ImageURL != nil {
		img := *p.ImageURL
		cp.ImageURL = &img
	}
	cp.DepotDistribution = append([]DepotStock(nil), p.DepotDistribution...)
	return &cp
}

// DistributionFor returns the entry for depotID and its index, or -1.
func (p *Product) DistributionFor(depotID string) (DepotStock, int) {
	for i, d := range p.DepotDistribution {
		if d.DepotID == depotID {
			return d, i
		}
	}
	return DepotStock{}, -1
}

// ProductSnapshot is the product view returned to callers of the transaction recorder.
type ProductSnapshot struct {
	ID     string        `json:"id"`
	SKU    string        `json:"sku"`
	Name   string        `json:"name"`
	Stock  int64         `json:"stock"`
	Status ProductStatus `json:"status"`
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, SKU: p.SKU, Name: p.Name, Stock: p.Stock, Status: p.Status}
}

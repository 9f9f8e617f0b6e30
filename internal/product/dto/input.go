package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	OwnerID      string          `json:"-" validate:"required"`
	SKU          string          `json:"sku" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=255"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderPoint *int64          `json:"reorder_point" validate:"omitempty,gte=0"`
	Supplier     string          `json:"supplier"`
	Brand        string          `json:"brand"`
	LeadTimeDays *int            `json:"lead_time_days" validate:"omitempty,gte=0"`
	DailySales   float64         `json:"daily_sales" validate:"gte=0"`
	WeeklySales  float64         `json:"weekly_sales" validate:"gte=0"`
	ImageURL     string          `json:"image_url"`

	// Optional opening balance, recorded as a stock-in transaction.
	InitialStock int64  `json:"initial_stock" validate:"gte=0"`
	DepotID      string `json:"depot_id" validate:"required_with=InitialStock"`
	PerformedBy  string `json:"-"`
}

type UpdateProductInput struct {
	ID           string           `json:"-" validate:"required"`
	OwnerID      string           `json:"-" validate:"required"`
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category     *string          `json:"category"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ReorderPoint *int64           `json:"reorder_point" validate:"omitempty,gte=0"`
	Supplier     *string          `json:"supplier"`
	Brand        *string          `json:"brand"`
	LeadTimeDays *int             `json:"lead_time_days" validate:"omitempty,gte=0"`
	DailySales   *float64         `json:"daily_sales" validate:"omitempty,gte=0"`
	WeeklySales  *float64         `json:"weekly_sales" validate:"omitempty,gte=0"`
	ImageURL     *string          `json:"image_url"`
}

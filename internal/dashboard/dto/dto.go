package dto

import "github.com/shopspring/decimal"

// Stats summarises one owner's inventory. TotalValue is the sum of unit price
// times stock over every product.
type Stats struct {
	TotalProducts   int             `db:"total_products" json:"total_products"`
	LowStockCount   int             `db:"low_stock_count" json:"low_stock_count"`
	OutOfStockCount int             `db:"out_of_stock_count" json:"out_of_stock_count"`
	TotalDepots     int             `db:"total_depots" json:"total_depots"`
	UnreadAlerts    int             `db:"unread_alerts" json:"unread_alerts"`
	TotalValue      decimal.Decimal `db:"total_value" json:"total_value"`
}

type StockedProduct struct {
	SKU        string  `db:"sku"`
	Name       string  `db:"name"`
	Category   string  `db:"category"`
	Stock      int64   `db:"stock"`
	DailySales float64 `db:"daily_sales"`
}

type TopSKU struct {
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	CurrentStock    int64  `json:"current_stock"`
	PredictedDemand int64  `json:"predicted_demand"`
}

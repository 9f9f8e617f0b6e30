package dto

type RecordInput struct {
	OwnerID     string `json:"-" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
	Type        string `json:"type"`
	Quantity    int64  `json:"quantity"`
	DepotID     string `json:"depot_id"`
	FromDepotID string `json:"from_depot_id"`
	ToDepotID   string `json:"to_depot_id"`
	Reason      string `json:"reason" validate:"max=500"`
	Notes       string `json:"notes" validate:"max=2000"`
	PerformedBy string `json:"performed_by"`
}

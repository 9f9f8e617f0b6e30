package model

import "time"

type AlertType string

const (
	AlertLowStock        AlertType = "low-stock"
	AlertOutOfStock      AlertType = "out-of-stock"
	AlertCapacityWarning AlertType = "capacity-warning"
)

type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

type Alert struct {
	ID              string        `db:"id" json:"id"`
	OwnerID         string        `db:"owner_id" json:"owner_id"`
	Type            AlertType     `db:"alert_type" json:"type"`
	Title           string        `db:"title" json:"title"`
	Description     string        `db:"description" json:"description"`
	Severity        AlertSeverity `db:"severity" json:"severity"`
	ProductID       *string       `db:"product_id" json:"product_id,omitempty"`
	DepotID         *string       `db:"depot_id" json:"depot_id,omitempty"`
	IsRead          bool          `db:"is_read" json:"is_read"`
	IsResolved      bool          `db:"is_resolved" json:"is_resolved"`
	ResolvedAt      *time.Time    `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy      *string       `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNotes *string       `db:"resolution_notes" json:"resolution_notes,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// SubjectID is the product or depot the alert is about.
func (a *Alert) SubjectID() string {
	if a.ProductID != nil {
		return *a.ProductID
	}
	if a.DepotID != nil {
		return *a.DepotID
	}
	return ""
}

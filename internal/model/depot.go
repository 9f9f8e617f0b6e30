package model

type DepotStatus string

const (
	DepotNormal   DepotStatus = "normal"
	DepotWarning  DepotStatus = "warning"
	DepotCritical DepotStatus = "critical"
)

type Depot struct {
	BaseModel
	OwnerID            string      `db:"owner_id" json:"owner_id"`
	Name               string      `db:"name" json:"name"`
	Location           string      `db:"location" json:"location"`
	Capacity           int64       `db:"capacity" json:"capacity"`
	CurrentUtilization int64       `db:"current_utilization" json:"current_utilization"`
	ItemsStored        int         `db:"items_stored" json:"items_stored"`
	Status             DepotStatus `db:"status" json:"status"`

	// Projection of the depot stock relation by depot.
	Products []DepotStock `db:"-" json:"products"`
}

func (d *Depot) Clone() *Depot {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Products = append([]DepotStock(nil), d.Products...)
	return &cp
}

// Ref is the minimal depot identity carried into ledger entries and transactions.
func (d *Depot) Ref() DepotRef {
	return DepotRef{ID: d.ID, Name: d.Name}
}

type DepotRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

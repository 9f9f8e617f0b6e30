package ledger

import "github.com/fekuna/omnipos-inventory-service/internal/model"

// Utilization thresholds, as fractions of capacity.
const (
	criticalPercent = 90
	warningPercent  = 70
)

func DeriveDepotStatus(utilization, capacity int64) model.DepotStatus {
	if capacity <= 0 {
		return model.DepotNormal
	}
	// Integer form of utilization/capacity >= threshold.
	switch {
	case utilization*100 >= criticalPercent*capacity:
		return model.DepotCritical
	case utilization*100 >= warningPercent*capacity:
		return model.DepotWarning
	default:
		return model.DepotNormal
	}
}

// Recount re-sums the depot counters from its full product list.
func Recount(d *model.Depot) {
	var total int64
	for _, p := range d.Products {
		total += p.Quantity
	}
	d.CurrentUtilization = total
	d.ItemsStored = len(d.Products)
	d.Status = DeriveDepotStatus(d.CurrentUtilization, d.Capacity)
}

// UpsertProductEntry mirrors one distribution entry into the depot's view. A zero
// quantity removes the entry instead.
func UpsertProductEntry(d *model.Depot, e model.DepotStock) {
	if e.Quantity == 0 {
		RemoveProductEntry(d, e.ProductID)
		return
	}
	e.DepotName = d.Name
	for i := range d.Products {
		if d.Products[i].ProductID == e.ProductID {
			d.Products[i] = e
			Recount(d)
			return
		}
	}
	d.Products = append(d.Products, e)
	Recount(d)
}

// RemoveProductEntry deletes the product from the depot's view and reports whether
// an entry existed.
func RemoveProductEntry(d *model.Depot, productID string) bool {
	for i := range d.Products {
		if d.Products[i].ProductID == productID {
			d.Products = append(d.Products[:i:i], d.Products[i+1:]...)
			Recount(d)
			return true
		}
	}
	return false
}

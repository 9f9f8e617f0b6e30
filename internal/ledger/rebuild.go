package ledger

import (
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type RebuildResult struct {
	Products   []model.Product
	Depots     []model.Depot
	Links      int
	Violations []apperror.ConsistencyViolation
}

// Rebuild derives every depot view and every product's stock/status from the product
// distributions alone. Inputs are not modified. Depot-side entries that no product
// backs, and product entries that point at unknown depots, come back as violations.
func Rebuild(products []model.Product, depots []model.Depot) RebuildResult {
	res := RebuildResult{
		Products: make([]model.Product, len(products)),
		Depots:   make([]model.Depot, len(depots)),
	}

	productIdx := make(map[string]int, len(products))
	for i := range products {
		p := products[i].Clone()
		Recompute(p)
		res.Products[i] = *p
		productIdx[p.ID] = i
	}

	depotIdx := make(map[string]int, len(depots))
	for i := range depots {
		d := depots[i].Clone()
		for _, e := range d.Products {
			if _, ok := productIdx[e.ProductID]; !ok {
				res.Violations = append(res.Violations, apperror.ConsistencyViolation{
					Kind:      apperror.ViolationMissingProduct,
					ProductID: e.ProductID,
					DepotID:   d.ID,
					Quantity:  e.Quantity,
				})
			}
		}
		d.Products = nil
		Recount(d)
		res.Depots[i] = *d
		depotIdx[d.ID] = i
	}

	for _, p := range res.Products {
		for _, e := range p.DepotDistribution {
			i, ok := depotIdx[e.DepotID]
			if !ok {
				res.Violations = append(res.Violations, apperror.ConsistencyViolation{
					Kind:      apperror.ViolationMissingDepot,
					ProductID: p.ID,
					DepotID:   e.DepotID,
					Quantity:  e.Quantity,
				})
				continue
			}
			e.ProductName = p.Name
			e.ProductSKU = p.SKU
			UpsertProductEntry(&res.Depots[i], e)
			res.Links++
		}
	}

	for i := range res.Depots {
		sortEntries(res.Depots[i].Products)
	}
	return res
}

func sortEntries(entries []model.DepotStock) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})
}

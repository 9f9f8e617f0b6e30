package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

func fixture() ([]model.Product, []model.Depot) {
	products := []model.Product{
		{
			BaseModel: model.BaseModel{ID: "p1"}, Name: "Bolt", SKU: "B-1", ReorderPoint: 10,
			Stock: 999, Status: model.ProductOverstock, // drifted
			DepotDistribution: []model.DepotStock{
				{ProductID: "p1", DepotID: "d1", Quantity: 4},
				{ProductID: "p1", DepotID: "d2", Quantity: 20},
			},
		},
		{
			BaseModel: model.BaseModel{ID: "p2"}, Name: "Nut", SKU: "N-1", ReorderPoint: 1,
			DepotDistribution: []model.DepotStock{
				{ProductID: "p2", DepotID: "d1", Quantity: 3},
				{ProductID: "p2", DepotID: "gone", Quantity: 2},
			},
		},
	}
	depots := []model.Depot{
		{
			BaseModel: model.BaseModel{ID: "d1"}, Name: "North", Capacity: 10,
			Products: []model.DepotStock{
				{ProductID: "p1", DepotID: "d1", Quantity: 1}, // drifted quantity
				{ProductID: "ghost", DepotID: "d1", Quantity: 9},
			},
			CurrentUtilization: 10, ItemsStored: 2,
		},
		{BaseModel: model.BaseModel{ID: "d2"}, Name: "South", Capacity: 100},
	}
	return products, depots
}

func TestRebuild_DerivesEverythingFromDistributions(t *testing.T) {
	products, depots := fixture()

	res := Rebuild(products, depots)

	assert.Equal(t, int64(24), res.Products[0].Stock)
	assert.Equal(t, model.ProductInStock, res.Products[0].Status)
	assert.Equal(t, int64(5), res.Products[1].Stock)
	assert.Equal(t, model.ProductOverstock, res.Products[1].Status)

	north := res.Depots[0]
	require.Len(t, north.Products, 2)
	assert.Equal(t, "p1", north.Products[0].ProductID)
	assert.Equal(t, int64(4), north.Products[0].Quantity)
	assert.Equal(t, "Bolt", north.Products[0].ProductName)
	assert.Equal(t, "North", north.Products[0].DepotName)
	assert.Equal(t, int64(7), north.CurrentUtilization)
	assert.Equal(t, model.DepotWarning, north.Status)

	assert.Equal(t, int64(20), res.Depots[1].CurrentUtilization)
	assert.Equal(t, 3, res.Links)

	assert.ElementsMatch(t, []apperror.ConsistencyViolation{
		{Kind: apperror.ViolationMissingProduct, ProductID: "ghost", DepotID: "d1", Quantity: 9},
		{Kind: apperror.ViolationMissingDepot, ProductID: "p2", DepotID: "gone", Quantity: 2},
	}, res.Violations)

	// Inputs untouched.
	assert.Equal(t, int64(999), products[0].Stock)
	assert.Len(t, depots[0].Products, 2)
	assert.Equal(t, "ghost", depots[0].Products[1].ProductID)
}

func TestRebuild_Idempotent(t *testing.T) {
	products, depots := fixture()

	first := Rebuild(products, depots)
	second := Rebuild(first.Products, first.Depots)

	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, first.Depots, second.Depots)
}

func TestRebuild_MirrorInvariant(t *testing.T) {
	products, depots := fixture()
	res := Rebuild(products, depots)

	depotByID := map[string]model.Depot{}
	for _, d := range res.Depots {
		depotByID[d.ID] = d
	}
	for _, p := range res.Products {
		for _, e := range p.DepotDistribution {
			d, ok := depotByID[e.DepotID]
			if !ok {
				continue
			}
			matches := 0
			for _, v := range d.Products {
				if v.ProductID == p.ID {
					matches++
					assert.Equal(t, e.Quantity, v.Quantity)
				}
			}
			assert.Equal(t, 1, matches, "product %s in depot %s", p.ID, d.ID)
		}
	}
	for _, d := range res.Depots {
		for _, v := range d.Products {
			found := false
			for _, p := range res.Products {
				if _, idx := p.DistributionFor(d.ID); p.ID == v.ProductID && idx >= 0 {
					found = true
				}
			}
			assert.True(t, found, "depot %s lists unbacked product %s", d.ID, v.ProductID)
		}
	}
}

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

func TestUpsertProductEntry_RecountsFromFullList(t *testing.T) {
	d := &model.Depot{BaseModel: model.BaseModel{ID: "d"}, Name: "Main", Capacity: 1000}
	// Stale counters must not leak into the result.
	d.CurrentUtilization = 12345
	d.ItemsStored = 99

	UpsertProductEntry(d, model.DepotStock{ProductID: "p1", Quantity: 500})
	UpsertProductEntry(d, model.DepotStock{ProductID: "p2", Quantity: 450})

	assert.Equal(t, int64(950), d.CurrentUtilization)
	assert.Equal(t, 2, d.ItemsStored)
	assert.Equal(t, model.DepotCritical, d.Status)
	assert.Equal(t, "Main", d.Products[0].DepotName)

	UpsertProductEntry(d, model.DepotStock{ProductID: "p1", Quantity: 100})
	assert.Equal(t, int64(550), d.CurrentUtilization)
	assert.Equal(t, 2, d.ItemsStored)
	assert.Equal(t, model.DepotNormal, d.Status)
}

func TestUpsertProductEntry_ZeroRemoves(t *testing.T) {
	d := &model.Depot{BaseModel: model.BaseModel{ID: "d"}, Capacity: 10}
	UpsertProductEntry(d, model.DepotStock{ProductID: "p1", Quantity: 8})
	require.Equal(t, model.DepotWarning, d.Status)

	UpsertProductEntry(d, model.DepotStock{ProductID: "p1", Quantity: 0})
	assert.Empty(t, d.Products)
	assert.Equal(t, int64(0), d.CurrentUtilization)
	assert.Equal(t, model.DepotNormal, d.Status)
}

func TestRemoveProductEntry(t *testing.T) {
	d := &model.Depot{BaseModel: model.BaseModel{ID: "d"}, Capacity: 100}
	UpsertProductEntry(d, model.DepotStock{ProductID: "p1", Quantity: 5})
	UpsertProductEntry(d, model.DepotStock{ProductID: "p2", Quantity: 6})

	assert.True(t, RemoveProductEntry(d, "p1"))
	assert.False(t, RemoveProductEntry(d, "p1"))
	assert.Equal(t, 1, d.ItemsStored)
	assert.Equal(t, int64(6), d.CurrentUtilization)
}

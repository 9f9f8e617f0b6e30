package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/store/memory"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (alert.UseCase, *notify.Recorder) {
	t.Helper()
	rec := notify.NewRecorder(32)
	return NewAlertUseCase(memory.New().Alerts(), rec, logger.NewNop()), rec
}

func product(stock, reorder int64, status model.ProductStatus) *model.Product {
	p := &model.Product{OwnerID: "owner-1", SKU: "SKU-1", Name: "Widget", Stock: stock, ReorderPoint: reorder, Status: status}
	p.ID = "p1"
	return p
}

func openAlerts(t *testing.T, uc alert.UseCase, subject string) []model.Alert {
	t.Helper()
	unresolved := false
	alerts, _, err := uc.ListAlerts(context.Background(), &dto.AlertFilters{OwnerID: "owner-1", SubjectID: subject, IsResolved: &unresolved})
	require.NoError(t, err)
	return alerts
}

func TestSyncProduct_OpensOnceForLowStock(t *testing.T) {
	uc, rec := newTracker(t)
	ctx := context.Background()

	res, err := uc.SyncProduct(ctx, product(5, 10, model.ProductLowStock))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Opened)

	res, err = uc.SyncProduct(ctx, product(4, 10, model.ProductLowStock))
	require.NoError(t, err)
	assert.Equal(t, dto.SyncResult{}, res)

	open := openAlerts(t, uc, "p1")
	require.Len(t, open, 1)
	assert.Equal(t, model.AlertLowStock, open[0].Type)
	assert.Equal(t, model.SeverityMedium, open[0].Severity)
	assert.Equal(t, "Low stock: Widget", open[0].Title)

	events := rec.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, notify.AlertCreated, events[0].Type)
}

func TestSyncProduct_SwitchesTypeAndAutoResolves(t *testing.T) {
	uc, _ := newTracker(t)
	ctx := context.Background()

	_, err := uc.SyncProduct(ctx, product(5, 10, model.ProductLowStock))
	require.NoError(t, err)

	res, err := uc.SyncProduct(ctx, product(0, 10, model.ProductOutOfStock))
	require.NoError(t, err)
	assert.Equal(t, dto.SyncResult{Opened: 1, Resolved: 1}, res)

	open := openAlerts(t, uc, "p1")
	require.Len(t, open, 1)
	assert.Equal(t, model.AlertOutOfStock, open[0].Type)

	res, err = uc.SyncProduct(ctx, product(50, 10, model.ProductOverstock))
	require.NoError(t, err)
	assert.Equal(t, dto.SyncResult{Resolved: 1}, res)
	assert.Empty(t, openAlerts(t, uc, "p1"))

	resolved := true
	all, _, err := uc.ListAlerts(ctx, &dto.AlertFilters{OwnerID: "owner-1", IsResolved: &resolved})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, a := range all {
		require.NotNil(t, a.ResolvedBy)
		assert.Equal(t, alert.SystemResolver, *a.ResolvedBy)
	}
}

func TestSyncDepot_CapacityWarningOnlyWhenCritical(t *testing.T) {
	uc, _ := newTracker(t)
	ctx := context.Background()

	d := &model.Depot{OwnerID: "owner-1", Name: "North", Capacity: 1000, CurrentUtilization: 800, Status: model.DepotWarning}
	d.ID = "d1"
	res, err := uc.SyncDepot(ctx, d)
	require.NoError(t, err)
	assert.Zero(t, res.Opened)

	d.CurrentUtilization, d.Status = 950, model.DepotCritical
	res, err = uc.SyncDepot(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Opened)

	open := openAlerts(t, uc, "d1")
	require.Len(t, open, 1)
	assert.Equal(t, model.AlertCapacityWarning, open[0].Type)
	require.NotNil(t, open[0].DepotID)
	assert.Nil(t, open[0].ProductID)
}

func TestResolve_ManualAndMarkRead(t *testing.T) {
	uc, _ := newTracker(t)
	ctx := context.Background()

	_, err := uc.SyncProduct(ctx, product(0, 10, model.ProductOutOfStock))
	require.NoError(t, err)
	id := openAlerts(t, uc, "p1")[0].ID

	read, err := uc.MarkRead(ctx, "owner-1", id)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	notes := "supplier notified"
	resolved, err := uc.Resolve(ctx, &dto.ResolveInput{ID: id, OwnerID: "owner-1", ResolvedBy: "ops", Notes: &notes})
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, "ops", *resolved.ResolvedBy)
	assert.Equal(t, notes, *resolved.ResolutionNotes)

	_, err = uc.MarkRead(ctx, "owner-2", id)
	assert.Error(t, err)
}

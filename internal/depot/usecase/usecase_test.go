package usecase

import (
	"context"
	"testing"

	alertDTO "github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	alertUC "github.com/fekuna/omnipos-inventory-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/store/memory"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()

	full := model.Depot{OwnerID: owner, Name: "Full", Capacity: 100}
	full.ID = "depot-full"
	p := model.Product{OwnerID: owner, SKU: "S-1", Name: "Bolt", ReorderPoint: 10}
	p.ID = "prod-1"
	_, err := ledger.ApplyDistributionChange(&p, full.Ref(), 80, p.CreatedAt)
	require.NoError(t, err)
	ledger.UpsertProductEntry(&full, p.DepotDistribution[0])

	store.Seed([]model.Product{p}, []model.Depot{full})
	return store
}

func TestCreateDepot(t *testing.T) {
	store := seededStore(t)
	uc := NewDepotUseCase(store.Depots(), nil, nil, logger.NewNop())

	d, err := uc.CreateDepot(context.Background(), &dto.CreateDepotInput{OwnerID: owner, Name: " North ", Capacity: 250})
	require.NoError(t, err)
	assert.Equal(t, "North", d.Name)
	assert.Equal(t, model.DepotNormal, d.Status)
	assert.Zero(t, d.CurrentUtilization)

	_, err = uc.CreateDepot(context.Background(), &dto.CreateDepotInput{OwnerID: owner, Name: "Bad", Capacity: -1})
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateDepot_CapacityRederivesStatusAndAlerts(t *testing.T) {
	store := seededStore(t)
	events := notify.NewRecorder(16)
	alerts := alertUC.NewAlertUseCase(store.Alerts(), events, logger.NewNop())
	uc := NewDepotUseCase(store.Depots(), alerts, events, logger.NewNop())
	ctx := context.Background()

	// 80 of 100 is a warning; shrinking to 85 makes it critical.
	capacity := int64(85)
	d, err := uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "depot-full", OwnerID: owner, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, model.DepotCritical, d.Status)

	resolved := false
	open, _, err := alerts.ListAlerts(ctx, &alertDTO.AlertFilters{OwnerID: owner, SubjectID: "depot-full", IsResolved: &resolved})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, model.AlertCapacityWarning, open[0].Type)

	capacity = 1000
	d, err = uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "depot-full", OwnerID: owner, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, model.DepotNormal, d.Status)

	open, _, err = alerts.ListAlerts(ctx, &alertDTO.AlertFilters{OwnerID: owner, SubjectID: "depot-full", IsResolved: &resolved})
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestUpdateDepot_RenameRefreshesProductDistribution(t *testing.T) {
	store := seededStore(t)
	uc := NewDepotUseCase(store.Depots(), nil, nil, logger.NewNop())
	ctx := context.Background()

	name := "Renamed"
	_, err := uc.UpdateDepot(ctx, &dto.UpdateDepotInput{ID: "depot-full", OwnerID: owner, Name: &name})
	require.NoError(t, err)

	p, err := store.Products().FindByID(ctx, owner, "prod-1")
	require.NoError(t, err)
	require.Len(t, p.DepotDistribution, 1)
	assert.Equal(t, "Renamed", p.DepotDistribution[0].DepotName)
}

func TestDeleteDepot(t *testing.T) {
	store := seededStore(t)
	uc := NewDepotUseCase(store.Depots(), nil, nil, logger.NewNop())
	ctx := context.Background()

	err := uc.DeleteDepot(ctx, owner, "depot-full")
	assert.True(t, apperror.IsValidation(err))

	empty, err := uc.CreateDepot(ctx, &dto.CreateDepotInput{OwnerID: owner, Name: "Empty"})
	require.NoError(t, err)

	// Other owners cannot see it.
	assert.True(t, apperror.IsNotFound(uc.DeleteDepot(ctx, "owner-2", empty.ID)))

	require.NoError(t, uc.DeleteDepot(ctx, owner, empty.ID))
	_, err = uc.GetDepot(ctx, owner, empty.ID)
	assert.True(t, apperror.IsNotFound(err))
}

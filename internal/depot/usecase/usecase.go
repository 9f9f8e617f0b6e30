package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot"
	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAttempts = 3

type depotUseCase struct {
	repo     depot.Repository
	alerts   alert.Tracker
	notifier notify.Notifier
	logger   logger.ZapLogger
}

func NewDepotUseCase(repo depot.Repository, alerts alert.Tracker, notifier notify.Notifier, log logger.ZapLogger) depot.UseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &depotUseCase{
		repo:     repo,
		alerts:   alerts,
		notifier: notifier,
		logger:   log,
	}
}

func (uc *depotUseCase) CreateDepot(ctx context.Context, input *dto.CreateDepotInput) (*model.Depot, error) {
	if err := apperror.ValidateStruct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &model.Depot{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:   input.OwnerID,
		Name:      strings.TrimSpace(input.Name),
		Location:  input.Location,
		Capacity:  input.Capacity,
	}
	ledger.Recount(d)

	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *depotUseCase) GetDepot(ctx context.Context, ownerID, id string) (*model.Depot, error) {
	d, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", id)
	}
	return d, nil
}

func (uc *depotUseCase) ListDepots(ctx context.Context, filters *dto.DepotFilters) ([]model.Depot, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *depotUseCase) UpdateDepot(ctx context.Context, input *dto.UpdateDepotInput) (*model.Depot, error) {
	if err := apperror.ValidateStruct(input); err != nil {
		return nil, err
	}

	var (
		d   *model.Depot
		err error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		d, err = uc.applyUpdate(ctx, input)
		if !apperror.IsConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if uc.alerts != nil {
		if _, err := uc.alerts.SyncDepot(ctx, d); err != nil {
			uc.logger.Error("Failed to sync depot alerts", zap.String("depot_id", d.ID), zap.Error(err))
		}
	}
	uc.notifier.Notify(ctx, notify.NewEvent(notify.DepotUpdated, d.OwnerID, d))
	return d, nil
}

func (uc *depotUseCase) applyUpdate(ctx context.Context, input *dto.UpdateDepotInput) (*model.Depot, error) {
	d, err := uc.GetDepot(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		d.Name = strings.TrimSpace(*input.Name)
	}
	if input.Location != nil {
		d.Location = *input.Location
	}
	if input.Capacity != nil {
		d.Capacity = *input.Capacity
	}
	d.Status = ledger.DeriveDepotStatus(d.CurrentUtilization, d.Capacity)
	d.UpdatedAt = time.Now().UTC()
	for i := range d.Products {
		d.Products[i].DepotName = d.Name
	}

	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *depotUseCase) DeleteDepot(ctx context.Context, ownerID, id string) error {
	d, err := uc.GetDepot(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if d.ItemsStored > 0 || len(d.Products) > 0 {
		return apperror.DepotNotEmpty(len(d.Products))
	}

	if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
		if apperror.IsConflict(err) {
			if cur, gerr := uc.GetDepot(ctx, ownerID, id); gerr == nil {
				return apperror.DepotNotEmpty(cur.ItemsStored)
			}
		}
		return err
	}

	if uc.alerts != nil {
		if _, err := uc.alerts.ResolveSubject(ctx, ownerID, id); err != nil {
			uc.logger.Error("Failed to resolve alerts of deleted depot", zap.String("depot_id", id), zap.Error(err))
		}
	}
	uc.notifier.Notify(ctx, notify.NewEvent(notify.DepotDeleted, ownerID, map[string]string{"id": id}))
	return nil
}

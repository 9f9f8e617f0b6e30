package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/pkg/i18n"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type alertUseCase struct {
	repo     alert.Repository
	notifier notify.Notifier
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewAlertUseCase(repo alert.Repository, notifier notify.Notifier, log logger.ZapLogger) alert.UseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &alertUseCase{
		repo:     repo,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// desired is the alert a subject should have open, if any.
type desired struct {
	kind        model.AlertType
	severity    model.AlertSeverity
	title       string
	description string
}

func (uc *alertUseCase) SyncProduct(ctx context.Context, p *model.Product) (dto.SyncResult, error) {
	var want *desired
	data := map[string]interface{}{
		"Name":         p.Name,
		"SKU":          p.SKU,
		"Stock":        p.Stock,
		"ReorderPoint": p.ReorderPoint,
	}
	switch p.Status {
	case model.ProductOutOfStock:
		want = &desired{
			kind:        model.AlertOutOfStock,
			severity:    model.SeverityHigh,
			title:       i18n.Localize("alert_out_of_stock_title", data),
			description: i18n.Localize("alert_out_of_stock_description", data),
		}
	case model.ProductLowStock:
		want = &desired{
			kind:        model.AlertLowStock,
			severity:    model.SeverityMedium,
			title:       i18n.Localize("alert_low_stock_title", data),
			description: i18n.Localize("alert_low_stock_description", data),
		}
	}

	managed := map[model.AlertType]bool{model.AlertLowStock: true, model.AlertOutOfStock: true}
	return uc.sync(ctx, p.OwnerID, p.ID, true, managed, want)
}

func (uc *alertUseCase) SyncDepot(ctx context.Context, d *model.Depot) (dto.SyncResult, error) {
	var want *desired
	if d.Status == model.DepotCritical {
		data := map[string]interface{}{
			"Name":        d.Name,
			"Utilization": d.CurrentUtilization,
			"Capacity":    d.Capacity,
		}
		want = &desired{
			kind:        model.AlertCapacityWarning,
			severity:    model.SeverityHigh,
			title:       i18n.Localize("alert_capacity_title", data),
			description: i18n.Localize("alert_capacity_description", data),
		}
	}

	managed := map[model.AlertType]bool{model.AlertCapacityWarning: true}
	return uc.sync(ctx, d.OwnerID, d.ID, false, managed, want)
}

// sync resolves open alerts of the managed types that no longer apply and opens
// want unless an alert of that type is already open.
func (uc *alertUseCase) sync(ctx context.Context, ownerID, subjectID string, isProduct bool, managed map[model.AlertType]bool, want *desired) (dto.SyncResult, error) {
	var res dto.SyncResult

	open, err := uc.repo.FindOpen(ctx, ownerID, subjectID)
	if err != nil {
		return res, err
	}

	alreadyOpen := false
	now := uc.now().UTC()
	for _, a := range open {
		if !managed[a.Type] {
			continue
		}
		if want != nil && a.Type == want.kind {
			alreadyOpen = true
			continue
		}
		ok, err := uc.repo.Resolve(ctx, ownerID, a.ID, alert.SystemResolver, nil, now)
		if err != nil {
			return res, err
		}
		if ok {
			res.Resolved++
			a.IsResolved = true
			uc.notifier.Notify(ctx, notify.NewEvent(notify.AlertResolved, ownerID, a))
		}
	}

	if want == nil || alreadyOpen {
		return res, nil
	}

	a := &model.Alert{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Type:        want.kind,
		Title:       want.title,
		Description: want.description,
		Severity:    want.severity,
		CreatedAt:   now,
	}
	subject := subjectID
	if isProduct {
		a.ProductID = &subject
	} else {
		a.DepotID = &subject
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		if apperror.IsConflict(err) {
			// Opened concurrently by another writer.
			return res, nil
		}
		return res, err
	}
	res.Opened++
	uc.logger.Info("Alert opened",
		zap.String("owner_id", ownerID),
		zap.String("subject_id", subjectID),
		zap.String("type", string(a.Type)))
	uc.notifier.Notify(ctx, notify.NewEvent(notify.AlertCreated, ownerID, a))
	return res, nil
}

func (uc *alertUseCase) ResolveSubject(ctx context.Context, ownerID, subjectID string) (int, error) {
	open, err := uc.repo.FindOpen(ctx, ownerID, subjectID)
	if err != nil {
		return 0, err
	}
	var n int
	now := uc.now().UTC()
	for _, a := range open {
		ok, err := uc.repo.Resolve(ctx, ownerID, a.ID, alert.SystemResolver, nil, now)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (uc *alertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *alertUseCase) MarkRead(ctx context.Context, ownerID, id string) (*model.Alert, error) {
	a, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("alert", id)
	}
	if err := uc.repo.MarkRead(ctx, ownerID, id); err != nil {
		return nil, err
	}
	a.IsRead = true
	return a, nil
}

func (uc *alertUseCase) Resolve(ctx context.Context, input *dto.ResolveInput) (*model.Alert, error) {
	if err := apperror.ValidateStruct(input); err != nil {
		return nil, err
	}
	a, err := uc.repo.FindByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("alert", input.ID)
	}

	by := input.ResolvedBy
	if by == "" {
		by = "user"
	}
	if _, err := uc.repo.Resolve(ctx, input.OwnerID, input.ID, by, input.Notes, uc.now().UTC()); err != nil {
		return nil, err
	}

	resolved, err := uc.repo.FindByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, notify.NewEvent(notify.AlertResolved, input.OwnerID, resolved))
	return resolved, nil
}

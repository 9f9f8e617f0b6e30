package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/reconcile"
	"github.com/fekuna/omnipos-inventory-service/internal/reconcile/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-inventory-service/internal/reconcile")

type reconcileUseCase struct {
	repo   reconcile.Repository
	alerts alert.Tracker
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReconcileUseCase(repo reconcile.Repository, alerts alert.Tracker, log logger.ZapLogger) reconcile.UseCase {
	return &reconcileUseCase{
		repo:   repo,
		alerts: alerts,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ReconcileAll rebuilds every derived field of one owner from the product
// distributions. Each record is written on its own; failures are collected in the
// report and do not stop the run.
func (uc *reconcileUseCase) ReconcileAll(ctx context.Context, ownerID string) (*dto.Report, error) {
	ctx, span := tracer.Start(ctx, "reconcile.ReconcileAll")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", ownerID))

	report := &dto.Report{OwnerID: ownerID, StartedAt: uc.now()}
	log := uc.logger.With(zap.String("owner_id", ownerID))

	products, depots, err := uc.repo.Load(ctx, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "load inventory")
	}

	rebuilt := ledger.Rebuild(products, depots)
	report.DepotsTouched = len(rebuilt.Depots)
	report.Violations = rebuilt.Violations
	for i := range rebuilt.Violations {
		log.Warn("Consistency violation", zap.Error(&rebuilt.Violations[i]))
	}

	var errs error
	now := uc.now()

	knownProducts := make(map[string]struct{}, len(products))
	for i := range products {
		knownProducts[products[i].ID] = struct{}{}

		read, next := &products[i], &rebuilt.Products[i]
		if read.Stock == next.Stock && read.Status == next.Status {
			continue
		}
		next.UpdatedAt = now
		if err := uc.repo.SaveProduct(ctx, next, read.Stock); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "save product %s", next.ID))
			continue
		}
		log.Info("Product repaired",
			zap.String("product_id", next.ID),
			zap.Int64("stock_was", read.Stock),
			zap.Int64("stock", next.Stock),
		)
		report.ProductsUpdated++
	}

	var links []model.DepotStock
	for i := range depots {
		read, next := &depots[i], &rebuilt.Depots[i]
		for _, e := range next.Products {
			e.DepotName = next.Name
			links = append(links, e)
		}
		if !depotChanged(read, next, knownProducts) {
			continue
		}
		next.UpdatedAt = now
		if err := uc.repo.SaveDepot(ctx, next, read.CurrentUtilization); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "save depot %s", next.ID))
			continue
		}
		log.Info("Depot repaired",
			zap.String("depot_id", next.ID),
			zap.Int64("utilization_was", read.CurrentUtilization),
			zap.Int64("utilization", next.CurrentUtilization),
		)
		report.DepotsUpdated++
	}

	synced, err := uc.repo.SyncLinks(ctx, ownerID, links)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "sync links"))
	}
	report.LinksSynced = synced

	if uc.alerts != nil {
		for i := range rebuilt.Products {
			res, err := uc.alerts.SyncProduct(ctx, &rebuilt.Products[i])
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "alerts for product %s", rebuilt.Products[i].ID))
				continue
			}
			report.AlertsOpened += res.Opened
			report.AlertsResolved += res.Resolved
		}
		for i := range rebuilt.Depots {
			res, err := uc.alerts.SyncDepot(ctx, &rebuilt.Depots[i])
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "alerts for depot %s", rebuilt.Depots[i].ID))
				continue
			}
			report.AlertsOpened += res.Opened
			report.AlertsResolved += res.Resolved
		}
	}

	for _, e := range multierr.Errors(errs) {
		report.Errors = append(report.Errors, e.Error())
	}
	if errs != nil {
		span.SetStatus(codes.Error, errs.Error())
		log.Error("Reconciliation finished with errors", zap.Error(errs))
	}

	report.FinishedAt = uc.now()
	log.Info("Reconciliation finished",
		zap.Int("products_updated", report.ProductsUpdated),
		zap.Int("depots_updated", report.DepotsUpdated),
		zap.Int("links_synced", report.LinksSynced),
		zap.Int("violations", len(report.Violations)),
	)
	return report, nil
}

func (uc *reconcileUseCase) ReconcileEveryOwner(ctx context.Context) ([]dto.Report, error) {
	owners, err := uc.repo.Owners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list owners")
	}

	var (
		reports []dto.Report
		errs    error
	)
	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return reports, multierr.Append(errs, err)
		}
		report, err := uc.ReconcileAll(ctx, ownerID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("owner %s: %w", ownerID, err))
			continue
		}
		reports = append(reports, *report)
	}
	return reports, errs
}

// depotChanged compares stored counters and view with the rebuilt ones. View
// entries for unknown products are reported as violations, not compared.
func depotChanged(read, next *model.Depot, knownProducts map[string]struct{}) bool {
	if read.CurrentUtilization != next.CurrentUtilization ||
		read.ItemsStored != next.ItemsStored ||
		read.Status != next.Status {
		return true
	}

	stored := make(map[string]int64, len(read.Products))
	for _, e := range read.Products {
		if _, ok := knownProducts[e.ProductID]; ok {
			stored[e.ProductID] = e.Quantity
		}
	}
	if len(stored) != len(next.Products) {
		return true
	}
	for _, e := range next.Products {
		if q, ok := stored[e.ProductID]; !ok || q != e.Quantity {
			return true
		}
	}
	return false
}

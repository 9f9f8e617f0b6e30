package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	lockTTL     = 5 * time.Second

	defaultPerformer = "System"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-inventory-service/internal/transaction")

type recorder struct {
	repo     transaction.Repository
	products product.Repository
	depots   depot.Repository
	alerts   alert.Tracker
	catalog  transaction.ProductSync
	locker   cache.Locker
	notifier notify.Notifier
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*recorder)

// WithLocker serializes writers per (owner, product) before the guarded commit.
func WithLocker(l cache.Locker) Option { return func(r *recorder) { r.locker = l } }

func WithProductSync(s transaction.ProductSync) Option { return func(r *recorder) { r.catalog = s } }

func WithNotifier(n notify.Notifier) Option { return func(r *recorder) { r.notifier = n } }

func WithClock(now func() time.Time) Option { return func(r *recorder) { r.now = now } }

func NewTransactionUseCase(
	repo transaction.Repository,
	products product.Repository,
	depots depot.Repository,
	alerts alert.Tracker,
	log logger.ZapLogger,
	opts ...Option,
) transaction.UseCase {
	r := &recorder{
		repo:     repo,
		products: products,
		depots:   depots,
		alerts:   alerts,
		notifier: notify.Nop{},
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *recorder) RecordStockChange(ctx context.Context, input *dto.RecordInput) (*dto.RecordResult, error) {
	ctx, span := tracer.Start(ctx, "transaction.RecordStockChange")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner.id", input.OwnerID),
		attribute.String("product.id", input.ProductID),
		attribute.String("transaction.type", input.Type),
		attribute.Int64("transaction.quantity", input.Quantity),
	)

	if err := validate(input); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 0. Acquire lock
	if r.locker != nil {
		lockKey := fmt.Sprintf("lock:inventory:%s:%s", input.OwnerID, input.ProductID)
		lock, err := r.locker.Obtain(ctx, lockKey, lockTTL)
		switch {
		case errors.Is(err, cache.ErrLockNotObtained):
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		case err != nil:
			// The guarded commit still protects stock; the lock only reduces retries.
			r.logger.Warn("Failed to acquire inventory lock, continuing unlocked", zap.Error(err))
		default:
			defer func() {
				if err := lock.Release(context.Background()); err != nil {
					r.logger.Warn("Failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
				}
			}()
		}
	}

	var (
		change *model.StockChange
		err    error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		change, err = r.prepare(ctx, input)
		if err == nil {
			err = r.repo.Commit(ctx, change)
		}
		if !apperror.IsConflict(err) {
			break
		}
		span.AddEvent("commit conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
		r.logger.Debug("Stock commit lost a race, retrying",
			zap.String("product_id", input.ProductID), zap.Int("attempt", attempt))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.afterCommit(ctx, change)

	t := change.Transaction
	return &dto.RecordResult{
		Product: change.Product.Snapshot(),
		Transaction: dto.TransactionSummary{
			ID:            t.ID,
			Type:          t.Type,
			Quantity:      t.Quantity,
			PreviousStock: t.PreviousStock,
			NewStock:      t.NewStock,
			Timestamp:     t.Timestamp,
		},
	}, nil
}

func validate(in *dto.RecordInput) error {
	t := model.TransactionType(in.Type)
	if !t.Valid() {
		return apperror.InvalidTransactionType(in.Type)
	}
	if err := apperror.ValidateStruct(in); err != nil {
		return err
	}
	if in.Quantity <= 0 {
		return apperror.Validation("quantity", "must be greater than 0")
	}

	switch t {
	case model.TransactionStockIn, model.TransactionAdjustment:
		if in.DepotID == "" {
			return apperror.Validation("depot_id", "is required for %s", t)
		}
	case model.TransactionTransfer:
		if in.FromDepotID == "" || in.ToDepotID == "" {
			return apperror.Validation("from_depot_id", "transfer requires both from_depot_id and to_depot_id")
		}
		if in.FromDepotID == in.ToDepotID {
			return apperror.Validation("to_depot_id", "must differ from from_depot_id")
		}
	}
	return nil
}

// prepare reads current state and computes the full change in memory. Nothing is
// written here.
func (r *recorder) prepare(ctx context.Context, in *dto.RecordInput) (*model.StockChange, error) {
	p, err := r.products.FindByID(ctx, in.OwnerID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", in.ProductID)
	}

	now := r.now().UTC()
	work := p.Clone()
	tx := &model.Transaction{
		ID:            uuid.New().String(),
		OwnerID:       p.OwnerID,
		ProductID:     p.ID,
		ProductSKU:    p.SKU,
		ProductName:   p.Name,
		Type:          model.TransactionType(in.Type),
		Quantity:      in.Quantity,
		PreviousStock: p.Stock,
		Reason:        in.Reason,
		Notes:         in.Notes,
		PerformedBy:   in.PerformedBy,
		Timestamp:     now,
	}
	if tx.PerformedBy == "" {
		tx.PerformedBy = defaultPerformer
	}

	var entries []model.EntryChange
	switch tx.Type {
	case model.TransactionStockIn:
		d, err := r.loadDepot(ctx, in.OwnerID, in.DepotID)
		if err != nil {
			return nil, err
		}
		e, err := ledger.ApplyDistributionChange(work, d.Ref(), in.Quantity, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		tx.ToDepotID, tx.ToDepotName = &d.ID, &d.Name

	case model.TransactionStockOut:
		if in.Quantity > p.Stock {
			return nil, &apperror.InsufficientStockError{
				ProductID: p.ID,
				DepotID:   in.DepotID,
				Requested: in.Quantity,
				Available: p.Stock,
			}
		}
		if in.DepotID != "" {
			d, err := r.loadDepot(ctx, in.OwnerID, in.DepotID)
			if err != nil {
				return nil, err
			}
			e, err := ledger.ApplyDistributionChange(work, d.Ref(), -in.Quantity, now)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
			tx.FromDepotID, tx.FromDepotName = &d.ID, &d.Name
			break
		}
		entries, err = drain(work, in.Quantity, now)
		if err != nil {
			return nil, err
		}
		if len(entries) == 1 {
			tx.FromDepotID, tx.FromDepotName = &entries[0].Entry.DepotID, &entries[0].Entry.DepotName
		}

	case model.TransactionAdjustment:
		d, err := r.loadDepot(ctx, in.OwnerID, in.DepotID)
		if err != nil {
			return nil, err
		}
		e, err := ledger.SetDistribution(work, d.Ref(), in.Quantity, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		tx.ToDepotID, tx.ToDepotName = &d.ID, &d.Name

	case model.TransactionTransfer:
		from, err := r.loadDepot(ctx, in.OwnerID, in.FromDepotID)
		if err != nil {
			return nil, err
		}
		to, err := r.loadDepot(ctx, in.OwnerID, in.ToDepotID)
		if err != nil {
			return nil, err
		}
		out, err := ledger.ApplyDistributionChange(work, from.Ref(), -in.Quantity, now)
		if err != nil {
			return nil, err
		}
		into, err := ledger.ApplyDistributionChange(work, to.Ref(), in.Quantity, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, out, into)
		tx.FromDepotID, tx.FromDepotName = &from.ID, &from.Name
		tx.ToDepotID, tx.ToDepotName = &to.ID, &to.Name
	}

	work.UpdatedAt = now
	tx.NewStock = work.Stock
	return &model.StockChange{
		Product:       work,
		PreviousStock: p.Stock,
		Entries:       entries,
		Transaction:   tx,
	}, nil
}

// drain takes quantity out of the product's depots in distribution order.
func drain(p *model.Product, quantity int64, now time.Time) ([]model.EntryChange, error) {
	sources := append([]model.DepotStock(nil), p.DepotDistribution...)
	remaining := quantity
	var entries []model.EntryChange
	for _, src := range sources {
		if remaining == 0 {
			break
		}
		take := src.Quantity
		if take > remaining {
			take = remaining
		}
		e, err := ledger.ApplyDistributionChange(p, model.DepotRef{ID: src.DepotID, Name: src.DepotName}, -take, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		remaining -= take
	}
	if remaining > 0 {
		// Stock and distribution disagree; reconciliation repairs this.
		return nil, &apperror.InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: quantity - remaining,
		}
	}
	return entries, nil
}

func (r *recorder) loadDepot(ctx context.Context, ownerID, id string) (*model.Depot, error) {
	d, err := r.depots.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", id)
	}
	return d, nil
}

// afterCommit runs the side effects of a committed change. None of them can undo it.
func (r *recorder) afterCommit(ctx context.Context, c *model.StockChange) {
	p := c.Product
	log := r.logger.With(zap.String("owner_id", p.OwnerID), zap.String("product_id", p.ID))

	log.Info("Stock change recorded",
		zap.String("transaction_id", c.Transaction.ID),
		zap.String("type", string(c.Transaction.Type)),
		zap.Int64("quantity", c.Transaction.Quantity),
		zap.Int64("previous_stock", c.PreviousStock),
		zap.Int64("new_stock", p.Stock))

	if r.alerts != nil {
		if _, err := r.alerts.SyncProduct(ctx, p); err != nil {
			log.Error("Failed to sync product alerts", zap.Error(err))
		}
	}

	events := []notify.Event{notify.NewEvent(notify.TransactionCreated, p.OwnerID, c.Transaction)}
	for _, id := range c.DepotIDs() {
		d, err := r.depots.FindByID(ctx, p.OwnerID, id)
		if err != nil {
			log.Error("Failed to reload depot", zap.String("depot_id", id), zap.Error(err))
			continue
		}
		if d == nil {
			continue
		}
		if r.alerts != nil {
			if _, err := r.alerts.SyncDepot(ctx, d); err != nil {
				log.Error("Failed to sync depot alerts", zap.String("depot_id", id), zap.Error(err))
			}
		}
		events = append(events, notify.NewEvent(notify.DepotStockUpdated, p.OwnerID, depotStockPayload{
			DepotID:            d.ID,
			DepotName:          d.Name,
			ProductID:          p.ID,
			CurrentUtilization: d.CurrentUtilization,
			ItemsStored:        d.ItemsStored,
			Status:             d.Status,
		}))
	}
	if c.Transaction.Type == model.TransactionTransfer {
		events = append(events, notify.NewEvent(notify.ProductTransferred, p.OwnerID, c.Transaction))
	}
	r.notifier.Notify(ctx, events...)

	if r.catalog != nil {
		snapshot := p.Clone()
		go func() {
			bg := context.Background()
			r.catalog.Invalidate(bg, snapshot.OwnerID)
			r.catalog.Index(bg, snapshot)
		}()
	}
}

type depotStockPayload struct {
	DepotID            string            `json:"depot_id"`
	DepotName          string            `json:"depot_name"`
	ProductID          string            `json:"product_id"`
	CurrentUtilization int64             `json:"current_utilization"`
	ItemsStored        int               `json:"items_stored"`
	Status             model.DepotStatus `json:"status"`
}

func (r *recorder) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error) {
	if filters.Type != "" && !filters.Type.Valid() {
		return nil, 0, apperror.InvalidTransactionType(string(filters.Type))
	}
	return r.repo.FindAll(ctx, filters)
}

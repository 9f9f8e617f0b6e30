package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/depot"
	"github.com/fekuna/omnipos-inventory-service/internal/ledger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	txDTO "github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultReorderPoint = 10
	defaultLeadTimeDays = 7
	defaultBrand        = "Generic"

	maxAttempts = 3
)

var errNoIndex = errors.New("search index not configured")

type productUseCase struct {
	repo     product.Repository
	depots   depot.Repository
	recorder transaction.UseCase
	alerts   alert.Tracker
	catalog  product.Catalog
	notifier notify.Notifier
	logger   logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	depots depot.Repository,
	recorder transaction.UseCase,
	alerts alert.Tracker,
	catalog product.Catalog,
	notifier notify.Notifier,
	log logger.ZapLogger,
) product.UseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &productUseCase{
		repo:     repo,
		depots:   depots,
		recorder: recorder,
		alerts:   alerts,
		catalog:  catalog,
		notifier: notifier,
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := apperror.ValidateStruct(input); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	unique, err := uc.repo.IsSKUUnique(ctx, input.OwnerID, sku, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.SKUExists(sku)
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:      input.OwnerID,
		SKU:          sku,
		Name:         strings.TrimSpace(input.Name),
		Category:     input.Category,
		UnitPrice:    input.UnitPrice,
		ReorderPoint: defaultReorderPoint,
		Supplier:     input.Supplier,
		Brand:        input.Brand,
		LeadTimeDays: defaultLeadTimeDays,
		DailySales:   input.DailySales,
		WeeklySales:  input.WeeklySales,
	}
	if input.ReorderPoint != nil {
		p.ReorderPoint = *input.ReorderPoint
	}
	if input.LeadTimeDays != nil {
		p.LeadTimeDays = *input.LeadTimeDays
	}
	if p.Brand == "" {
		p.Brand = defaultBrand
	}
	if input.ImageURL != "" {
		img := input.ImageURL
		p.ImageURL = &img
	}
	ledger.Recompute(p)

	if input.InitialStock > 0 {
		d, err := uc.depots.FindByID(ctx, input.OwnerID, input.DepotID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, apperror.NotFound("depot", input.DepotID)
		}
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Opening balance goes through the recorder like any other stock change.
	if input.InitialStock > 0 {
		_, err := uc.recorder.RecordStockChange(ctx, &txDTO.RecordInput{
			OwnerID:     p.OwnerID,
			ProductID:   p.ID,
			Type:        string(model.TransactionStockIn),
			Quantity:    input.InitialStock,
			DepotID:     input.DepotID,
			Reason:      "Initial stock",
			PerformedBy: input.PerformedBy,
		})
		if err != nil {
			// Nothing was recorded, so the product is still empty and can go.
			if delErr := uc.repo.Delete(ctx, p.OwnerID, p.ID); delErr != nil {
				uc.logger.Error("Failed to roll back product after opening stock failed",
					zap.String("product_id", p.ID), zap.Error(delErr))
			}
			return nil, err
		}
		return uc.GetProduct(ctx, p.OwnerID, p.ID)
	}

	uc.syncAlerts(ctx, p)
	go uc.refreshCatalog(p.Clone())
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, ownerID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if products, count, ok := uc.catalog.CachedList(ctx, filters); ok {
		return products, count, nil
	}

	if filters.SearchQuery != "" && filters.DepotID == "" {
		products, count, err := uc.catalog.Search(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		if !errors.Is(err, errNoIndex) {
			uc.logger.Error("Product search failed, falling back to DB", zap.Error(err))
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	uc.catalog.StoreList(ctx, filters, products, count)
	return products, count, nil
}

func (uc *productUseCase) ListCategories(ctx context.Context, ownerID string) ([]string, error) {
	return uc.repo.Categories(ctx, ownerID)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := apperror.ValidateStruct(input); err != nil {
		return nil, err
	}

	var (
		p   *model.Product
		err error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		p, err = uc.applyUpdate(ctx, input)
		if !apperror.IsConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	uc.syncAlerts(ctx, p)
	uc.notifier.Notify(ctx, notify.NewEvent(notify.ProductUpdated, p.OwnerID, p.Snapshot()))
	go uc.refreshCatalog(p.Clone())
	return p, nil
}

func (uc *productUseCase) applyUpdate(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil && *input.SKU != p.SKU {
		sku := strings.TrimSpace(*input.SKU)
		unique, err := uc.repo.IsSKUUnique(ctx, p.OwnerID, sku, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperror.SKUExists(sku)
		}
		p.SKU = sku
	}
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.UnitPrice != nil {
		p.UnitPrice = *input.UnitPrice
	}
	if input.ReorderPoint != nil {
		p.ReorderPoint = *input.ReorderPoint
	}
	if input.Supplier != nil {
		p.Supplier = *input.Supplier
	}
	if input.Brand != nil {
		p.Brand = *input.Brand
	}
	if input.LeadTimeDays != nil {
		p.LeadTimeDays = *input.LeadTimeDays
	}
	if input.DailySales != nil {
		p.DailySales = *input.DailySales
	}
	if input.WeeklySales != nil {
		p.WeeklySales = *input.WeeklySales
	}
	if input.ImageURL != nil {
		img := *input.ImageURL
		p.ImageURL = &img
		if img == "" {
			p.ImageURL = nil
		}
	}

	// Stock is untouched; the reorder point may have moved the status.
	p.Status = ledger.DeriveStatus(p.Stock, p.ReorderPoint)
	p.UpdatedAt = time.Now().UTC()
	for i := range p.DepotDistribution {
		p.DepotDistribution[i].ProductName = p.Name
		p.DepotDistribution[i].ProductSKU = p.SKU
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, ownerID, id string) error {
	p, err := uc.GetProduct(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if p.Stock > 0 || len(p.DepotDistribution) > 0 {
		return apperror.ProductHasStock(p.Stock)
	}

	if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
		if apperror.IsConflict(err) {
			// Stock arrived between the read and the delete.
			if cur, gerr := uc.GetProduct(ctx, ownerID, id); gerr == nil {
				return apperror.ProductHasStock(cur.Stock)
			}
		}
		return err
	}

	if uc.alerts != nil {
		if _, err := uc.alerts.ResolveSubject(ctx, ownerID, id); err != nil {
			uc.logger.Error("Failed to resolve alerts of deleted product", zap.String("product_id", id), zap.Error(err))
		}
	}
	uc.notifier.Notify(ctx, notify.NewEvent(notify.ProductDeleted, ownerID, map[string]string{"id": id}))

	go func() {
		bg := context.Background()
		uc.catalog.Invalidate(bg, ownerID)
		uc.catalog.Remove(bg, id)
	}()
	return nil
}

func (uc *productUseCase) syncAlerts(ctx context.Context, p *model.Product) {
	if uc.alerts == nil {
		return
	}
	if _, err := uc.alerts.SyncProduct(ctx, p); err != nil {
		uc.logger.Error("Failed to sync product alerts", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) refreshCatalog(p *model.Product) {
	ctx := context.Background()
	uc.catalog.Invalidate(ctx, p.OwnerID)
	uc.catalog.Index(ctx, p)
}

package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/search"
	"go.uber.org/zap"
)

const (
	indexName = "inventory-products"
	listTTL   = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"owner_id": { "type": "keyword" },
			"name": { "type": "text" },
			"sku": { "type": "keyword" },
			"category": { "type": "keyword" },
			"supplier": { "type": "text" },
			"brand": { "type": "text" },
			"status": { "type": "keyword" },
			"stock": { "type": "long" },
			"created_at": { "type": "date" }
		}
	}
}`

// catalog keeps the Redis list cache and the search index in step with product
// writes. Either backend may be nil.
type catalog struct {
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewCatalog(cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.Catalog {
	c := &catalog{cache: cache, es: es, logger: log}
	if es != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := es.CreateIndex(ctx, indexName, indexMapping); err != nil {
			log.Warn("Failed to ensure product index", zap.Error(err))
		}
	}
	return c
}

type listPage struct {
	Products []model.Product
	Count    int
}

func cacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.OwnerID, md5.Sum(data)), nil
}

func (c *catalog) CachedList(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, bool) {
	if c.cache == nil {
		return nil, 0, false
	}
	key, err := cacheKey(filters)
	if err != nil {
		return nil, 0, false
	}
	val, err := c.cache.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, 0, false
	}
	var page listPage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		return nil, 0, false
	}
	return page.Products, page.Count, true
}

func (c *catalog) StoreList(ctx context.Context, filters *dto.ProductFilters, products []model.Product, count int) {
	if c.cache == nil {
		return
	}
	key, err := cacheKey(filters)
	if err != nil {
		return
	}
	data, err := json.Marshal(listPage{Products: products, Count: count})
	if err != nil {
		return
	}
	if err := c.cache.Client.Set(ctx, key, data, listTTL).Err(); err != nil {
		c.logger.Warn("Failed to cache product list", zap.Error(err))
	}
}

func (c *catalog) Invalidate(ctx context.Context, ownerID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", ownerID)); err != nil {
		c.logger.Warn("Failed to invalidate product cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (c *catalog) Index(ctx context.Context, p *model.Product) {
	if c.es == nil {
		return
	}
	if err := c.es.Index(ctx, indexName, p.ID, p); err != nil {
		c.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (c *catalog) Remove(ctx context.Context, id string) {
	if c.es == nil {
		return
	}
	if err := c.es.Delete(ctx, indexName, id); err != nil {
		c.logger.Error("failed to delete product from index", zap.String("product_id", id), zap.Error(err))
	}
}

// Search runs a full-text query scoped to the owner. It reports an error when no
// index is configured so callers fall back to the database.
func (c *catalog) Search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if c.es == nil {
		return nil, 0, errNoIndex
	}

	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku^2", "brand", "supplier"},
			},
		},
		{"term": map[string]interface{}{"owner_id": filters.OwnerID}},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category": filters.Category}})
	}
	if filters.Status != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"status": filters.Status}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"from":  filters.Offset(),
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
	}

	res, err := c.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

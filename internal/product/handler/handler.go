package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products", h.CreateProduct)
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/categories/list", h.ListCategories)
	rg.GET("/products/:id", h.GetProduct)
	rg.PUT("/products/:id", h.UpdateProduct)
	rg.DELETE("/products/:id", h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadBody(c, h.logger, err)
		return
	}
	input.OwnerID = ownerID
	input.PerformedBy = auth.Performer(c.Request.Context())

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		h.logger.Warn("failed to create product", zap.String("sku", input.SKU), zap.Error(err))
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	page, pageSize := response.Pagination(c)
	filters := &dto.ProductFilters{
		OwnerID:     ownerID,
		Category:    c.Query("category"),
		Status:      c.Query("status"),
		DepotID:     c.Query("depot_id"),
		SearchQuery: c.Query("q"),
		SortBy:      c.Query("sort"),
		SortOrder:   c.Query("order"),
		Page:        page,
		PageSize:    pageSize,
	}

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paged(c, products, total, page, pageSize)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	categories, err := h.uc.ListCategories(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"categories": categories})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadBody(c, h.logger, err)
		return
	}
	input.ID = c.Param("id")
	input.OwnerID = ownerID

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	id := c.Param("id")
	if err := h.uc.DeleteProduct(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"id": id, "deleted": true})
}

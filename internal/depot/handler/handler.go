package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/depot"
	"github.com/fekuna/omnipos-inventory-service/internal/depot/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type DepotHandler struct {
	uc     depot.UseCase
	logger logger.ZapLogger
}

func NewDepotHandler(uc depot.UseCase, log logger.ZapLogger) *DepotHandler {
	return &DepotHandler{uc: uc, logger: log}
}

func (h *DepotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/depots", h.CreateDepot)
	rg.GET("/depots", h.ListDepots)
	rg.GET("/depots/:id", h.GetDepot)
	rg.PUT("/depots/:id", h.UpdateDepot)
	rg.DELETE("/depots/:id", h.DeleteDepot)
}

func (h *DepotHandler) CreateDepot(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.CreateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadBody(c, h.logger, err)
		return
	}
	input.OwnerID = ownerID

	d, err := h.uc.CreateDepot(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, d)
}

func (h *DepotHandler) GetDepot(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	d, err := h.uc.GetDepot(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, d)
}

func (h *DepotHandler) ListDepots(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	page, pageSize := response.Pagination(c)
	depots, total, err := h.uc.ListDepots(c.Request.Context(), &dto.DepotFilters{
		OwnerID:     ownerID,
		Status:      c.Query("status"),
		SearchQuery: c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paged(c, depots, total, page, pageSize)
}

func (h *DepotHandler) UpdateDepot(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.UpdateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadBody(c, h.logger, err)
		return
	}
	input.ID = c.Param("id")
	input.OwnerID = ownerID

	d, err := h.uc.UpdateDepot(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, d)
}

func (h *DepotHandler) DeleteDepot(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	id := c.Param("id")
	if err := h.uc.DeleteDepot(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"id": id, "deleted": true})
}

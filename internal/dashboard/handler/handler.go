package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/dashboard"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{uc: uc, logger: log}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.GetStats)
	rg.GET("/dashboard/top-skus", h.TopSKUs)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	stats, err := h.uc.GetStats(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"stats": stats})
}

func (h *DashboardHandler) TopSKUs(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	skus, err := h.uc.TopSKUs(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"top_skus": skus})
}

package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/reconcile"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ReconcileHandler struct {
	uc     reconcile.UseCase
	logger logger.ZapLogger
}

func NewReconcileHandler(uc reconcile.UseCase, log logger.ZapLogger) *ReconcileHandler {
	return &ReconcileHandler{uc: uc, logger: log}
}

func (h *ReconcileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inventory/reconcile", h.Reconcile)
}

// Reconcile rebuilds the caller's derived inventory state and returns the report.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	report, err := h.uc.ReconcileAll(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, report)
}

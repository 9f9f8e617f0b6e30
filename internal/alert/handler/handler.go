package handler

import (
	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	"github.com/fekuna/omnipos-inventory-service/internal/alert/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	uc     alert.UseCase
	logger logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{uc: uc, logger: log}
}

func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/alerts", h.ListAlerts)
	rg.POST("/alerts/:id/read", h.MarkRead)
	rg.POST("/alerts/:id/resolve", h.Resolve)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	page, pageSize := response.Pagination(c)
	alerts, total, err := h.uc.ListAlerts(c.Request.Context(), &dto.AlertFilters{
		OwnerID:    ownerID,
		Type:       model.AlertType(c.Query("type")),
		Severity:   model.AlertSeverity(c.Query("severity")),
		SubjectID:  c.Query("subject_id"),
		IsRead:     response.OptionalBool(c, "is_read"),
		IsResolved: response.OptionalBool(c, "is_resolved"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paged(c, alerts, total, page, pageSize)
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	a, err := h.uc.MarkRead(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, a)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.ResolveInput
	// An empty body resolves without notes.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadBody(c, h.logger, err)
			return
		}
	}
	input.ID = c.Param("id")
	input.OwnerID = ownerID
	if input.ResolvedBy == "" {
		input.ResolvedBy = auth.Performer(c.Request.Context())
	}

	a, err := h.uc.Resolve(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, a)
}

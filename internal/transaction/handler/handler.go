package handler

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionHandler(uc transaction.UseCase, log logger.ZapLogger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transactions", h.RecordStockChange)
	rg.GET("/transactions", h.ListTransactions)
}

func (h *TransactionHandler) RecordStockChange(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	var input dto.RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadBody(c, h.logger, err)
		return
	}
	input.OwnerID = ownerID
	if input.PerformedBy == "" {
		input.PerformedBy = auth.Performer(c.Request.Context())
	}

	res, err := h.uc.RecordStockChange(c.Request.Context(), &input)
	if err != nil {
		h.logger.Warn("stock change rejected",
			zap.String("owner_id", ownerID),
			zap.String("product_id", input.ProductID),
			zap.String("type", input.Type),
			zap.Error(err),
		)
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, res)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ownerID := auth.GetOwnerID(c.Request.Context())
	if ownerID == "" {
		response.Unauthorized(c)
		return
	}

	page, pageSize := response.Pagination(c)
	filters := &dto.TransactionFilters{
		OwnerID:   ownerID,
		ProductID: c.Query("product_id"),
		DepotID:   c.Query("depot_id"),
		Type:      model.TransactionType(c.Query("type")),
		Page:      page,
		PageSize:  pageSize,
	}

	var err error
	if filters.From, err = parseTime(c, "from"); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if filters.To, err = parseTime(c, "to"); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	txs, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Paged(c, txs, total, page, pageSize)
}

func parseTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Validation(key, "must be an RFC 3339 timestamp")
	}
	return &t, nil
}

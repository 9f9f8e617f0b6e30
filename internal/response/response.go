package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/i18n"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type Page struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Paged(c *gin.Context, data interface{}, total, page, pageSize int) {
	c.JSON(http.StatusOK, Page{Data: data, Total: total, Page: page, PageSize: pageSize})
}

func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{
		Error:   "unauthorized",
		Message: i18n.Localize("unauthorized", nil, c.GetHeader("Accept-Language")),
	})
}

// Error maps a use case error onto a status code and a message in the caller's
// language. Unknown errors are logged and reported as 500 without detail.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status, body := describe(err, c.GetHeader("Accept-Language"))
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func describe(err error, lang string) (int, ErrorBody) {
	var (
		validation   *apperror.ValidationError
		insufficient *apperror.InsufficientStockError
		notFound     *apperror.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		if validation.Code != "" {
			return http.StatusBadRequest, ErrorBody{
				Error:   validation.Code,
				Message: i18n.Localize(validation.Code, validation.Params, lang),
				Field:   validation.Field,
			}
		}
		return http.StatusBadRequest, ErrorBody{
			Error: "validation_failed",
			Message: i18n.Localize("validation_failed", map[string]interface{}{
				"Field":   validation.Field,
				"Message": validation.Message,
			}, lang),
			Field: validation.Field,
		}

	case errors.As(err, &insufficient):
		data := map[string]interface{}{
			"DepotID":   insufficient.DepotID,
			"Requested": insufficient.Requested,
			"Available": insufficient.Available,
		}
		id := "insufficient_stock"
		if insufficient.DepotID != "" {
			id = "insufficient_stock_depot"
		}
		return http.StatusConflict, ErrorBody{Error: "insufficient_stock", Message: i18n.Localize(id, data, lang)}

	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{
			Error: "not_found",
			Message: i18n.Localize("not_found", map[string]interface{}{
				"Resource": notFound.Resource,
				"ID":       notFound.ID,
			}, lang),
		}

	case errors.Is(err, cache.ErrLockNotObtained):
		return http.StatusServiceUnavailable, ErrorBody{Error: "system_busy", Message: i18n.Localize("system_busy", nil, lang)}

	case apperror.IsConflict(err):
		return http.StatusConflict, ErrorBody{Error: "conflict", Message: i18n.Localize("conflict", nil, lang)}
	}

	return http.StatusInternalServerError, ErrorBody{Error: "internal_error", Message: i18n.Localize("internal_error", nil, lang)}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination reads page and page_size, defaulting to the first page of 20.
func Pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// OptionalBool returns nil when the query parameter is absent or unparsable.
func OptionalBool(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// BadBody reports a request body that could not be decoded.
func BadBody(c *gin.Context, log logger.ZapLogger, err error) {
	Error(c, log, apperror.Validation("body", "%s", err.Error()))
}

package response

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apperror.Validation("quantity", "must be greater than 0"), http.StatusBadRequest, "validation_failed", "Invalid quantity: must be greater than 0"},
		{"transaction type", apperror.InvalidTransactionType("refund"), http.StatusBadRequest, "invalid_transaction_type", `Unknown transaction type "refund"`},
		{"sku", apperror.SKUExists("W-1"), http.StatusBadRequest, "sku_exists", "SKU W-1 already exists"},
		{"insufficient", &apperror.InsufficientStockError{ProductID: "p", Requested: 9, Available: 2}, http.StatusConflict, "insufficient_stock", "Insufficient stock: requested 9, available 2"},
		{"insufficient depot", &apperror.InsufficientStockError{ProductID: "p", DepotID: "d1", Requested: 9, Available: 2}, http.StatusConflict, "insufficient_stock", "Insufficient stock in depot d1: requested 9, available 2"},
		{"not found wrapped", errors.Wrap(apperror.NotFound("product", "p-9"), "load"), http.StatusNotFound, "not_found", "product p-9 not found"},
		{"conflict", fmt.Errorf("commit: %w", apperror.ErrConflict), http.StatusConflict, "conflict", ""},
		{"busy", cache.ErrLockNotObtained, http.StatusServiceUnavailable, "system_busy", ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := describe(tt.err, "en")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			} else {
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestDescribe_Indonesian(t *testing.T) {
	_, en := describe(apperror.NotFound("depot", "d-1"), "en")
	_, id := describe(apperror.NotFound("depot", "d-1"), "id-ID,id;q=0.9")
	assert.NotEqual(t, en.Message, id.Message)
	assert.Contains(t, id.Message, "d-1")
}

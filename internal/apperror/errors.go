package apperror

import (
	"errors"
	"fmt"
)

// ErrConflict means a guarded write lost a race; the caller may re-read and retry.
var ErrConflict = errors.New("concurrent modification")

type ValidationError struct {
	Field   string
	Message string

	// Code and Params select a dedicated localized message; empty Code means the
	// generic validation message.
	Code   string
	Params map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransactionType is the ValidationError raised for an unknown transaction kind.
func InvalidTransactionType(t string) error {
	return &ValidationError{
		Field:   "type",
		Message: fmt.Sprintf("invalid transaction type %q", t),
		Code:    "invalid_transaction_type",
		Params:  map[string]interface{}{"Type": t},
	}
}

func SKUExists(sku string) error {
	return &ValidationError{
		Field:   "sku",
		Message: fmt.Sprintf("%s already exists", sku),
		Code:    "sku_exists",
		Params:  map[string]interface{}{"SKU": sku},
	}
}

func ProductHasStock(stock int64) error {
	return &ValidationError{
		Field:   "stock",
		Message: fmt.Sprintf("product still holds %d units", stock),
		Code:    "product_has_stock",
		Params:  map[string]interface{}{"Stock": stock},
	}
}

func DepotNotEmpty(items int) error {
	return &ValidationError{
		Field:   "products",
		Message: fmt.Sprintf("depot still stores %d products", items),
		Code:    "depot_not_empty",
		Params:  map[string]interface{}{"Items": items},
	}
}

type InsufficientStockError struct {
	ProductID string
	DepotID   string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	if e.DepotID != "" {
		return fmt.Sprintf("insufficient stock for product %s in depot %s: requested %d, available %d",
			e.ProductID, e.DepotID, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type ViolationKind string

const (
	ViolationMissingDepot   ViolationKind = "missing-depot"
	ViolationMissingProduct ViolationKind = "missing-product"
)

// ConsistencyViolation is reported, never returned as fatal, by reconciliation.
type ConsistencyViolation struct {
	Kind      ViolationKind `json:"kind"`
	ProductID string        `json:"product_id"`
	DepotID   string        `json:"depot_id"`
	Quantity  int64         `json:"quantity"`
}

func (e *ConsistencyViolation) Error() string {
	switch e.Kind {
	case ViolationMissingDepot:
		return fmt.Sprintf("product %s references missing depot %s (%d units)", e.ProductID, e.DepotID, e.Quantity)
	case ViolationMissingProduct:
		return fmt.Sprintf("depot %s lists missing product %s (%d units)", e.DepotID, e.ProductID, e.Quantity)
	}
	return fmt.Sprintf("consistency violation %s: product %s depot %s", e.Kind, e.ProductID, e.DepotID)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsInsufficientStock(err error) bool {
	var v *InsufficientStockError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// handlerがそのままJSONにできるエラー。Codeは機械可読、Detailsは
// どの行・どの商品・いくつ足りないかをクライアントに見せるための中身。
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// --- 共通のエラー種 ---

func errEmptyBatch() error {
	return NewHTTPError(http.StatusBadRequest, "empty_batch", "lines must not be empty")
}

func errValidation(message string) error {
	return NewHTTPError(http.StatusBadRequest, "validation_error", message)
}

func errItemNotFound(itemID uuid.UUID) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "item_not_found",
		Message: fmt.Sprintf("item %s not found in your workshop", itemID),
		Details: map[string]interface{}{"item_id": itemID.String()},
	}
}

func errInsufficientStock(itemID uuid.UUID, itemName string, sizeLabel string, available int64, requested int64) error {
	return &HTTPError{
		Status: http.StatusBadRequest,
		Code:   "insufficient_stock",
		Message: fmt.Sprintf("insufficient stock: %s, size %s (available %d, requested %d)",
			itemName, sizeLabel, available, requested),
		Details: map[string]interface{}{
			"item_id":    itemID.String(),
			"item_name":  itemName,
			"size_label": sizeLabel,
			"available":  available,
			"requested":  requested,
		},
	}
}

func errBarcodeConflict(barcode string) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Code:    "barcode_conflict",
		Message: fmt.Sprintf("barcode %q is already in use in this workshop", barcode),
		Details: map[string]interface{}{"barcode": barcode},
	}
}

func errNotFound() error {
	return NewHTTPError(http.StatusNotFound, "not_found", "not found")
}

func errDB() error {
	return NewHTTPError(http.StatusInternalServerError, "db_error", "db error")
}

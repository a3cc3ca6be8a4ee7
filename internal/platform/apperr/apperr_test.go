package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestInsufficientStockError_IsSentinel(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: "p1", ProductName: "Food", Requested: 15, Available: 10}
	wrapped := fmt.Errorf("create sale: %w", err)

	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatalf("expected errors.Is(ErrInsufficientStock)")
	}

	var ise *InsufficientStockError
	if !errors.As(wrapped, &ise) {
		t.Fatalf("expected errors.As to find *InsufficientStockError")
	}
	if ise.ProductID != "p1" || ise.Available != 10 {
		t.Fatalf("unexpected payload: %#v", ise)
	}
}

func TestHelpers_WrapSentinels(t *testing.T) {
	if !errors.Is(NotFound("pet", "x"), ErrNotFound) {
		t.Fatalf("NotFound must wrap ErrNotFound")
	}
	if !errors.Is(Invalid("name required"), ErrValidation) {
		t.Fatalf("Invalid must wrap ErrValidation")
	}
	if errors.Is(Invalid("x"), ErrNotFound) {
		t.Fatalf("Invalid must not match ErrNotFound")
	}
}

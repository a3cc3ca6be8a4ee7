// Package apperr define la taxonomía de errores compartida por todos los módulos.
//
// Los servicios envuelven estos sentinels con fmt.Errorf("%w: ...") y los
// handlers los traducen a status HTTP con errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPartialFailure    = errors.New("partial failure")
)

// NotFound arma un error "no existe" identificando entidad e id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// Invalid arma un ErrValidation con un detalle legible.
func Invalid(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

// InsufficientStockError identifica el producto que no alcanza para una venta.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (%s): requested=%d available=%d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

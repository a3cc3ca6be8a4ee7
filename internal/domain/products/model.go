package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un artículo de inventario. Stock nunca es negativo: solo lo
// descuentan las ventas y lo incrementa una reposición explícita.
type Product struct {
	ID        string
	Name      string
	Stock     int
	UnitPrice decimal.Decimal

	// Category es el nombre libre heredado; CategoryID la referencia al catálogo.
	Category   string
	CategoryID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

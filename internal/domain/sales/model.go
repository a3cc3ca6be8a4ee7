package sales

import (
	"time"

	"vetadmin/internal/platform/money"

	"github.com/shopspring/decimal"
)

// Status de una venta.
// @Enum PENDING, PAID, CANCELLED
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod medio de pago.
// @Enum CASH, TRANSFER, CARD
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodCard     PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard:
		return true
	}
	return false
}

// Line guarda el precio unitario vigente al momento de la venta.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total suma los subtotales y redondea a 2 decimales.
func Total(lines []Line) decimal.Decimal {
	subtotals := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		subtotals = append(subtotals, l.Subtotal())
	}
	return money.Sum(subtotals...)
}

// Sale. Total se calcula una sola vez al crearla.
// ClientID y PetID quedan en nil si se borra el cliente o la mascota.
type Sale struct {
	ID       string
	ClientID *string
	PetID    *string
	SoldAt   time.Time

	Lines  []Line
	Total  decimal.Decimal
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID     string
	SaleID string
	Amount decimal.Decimal
	Method PaymentMethod
	PaidAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance es el estado de cuenta de una venta.
type Balance struct {
	SaleID string
	Status Status
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Due    decimal.Decimal // nunca negativo; el sobrepago no genera saldo a favor
}

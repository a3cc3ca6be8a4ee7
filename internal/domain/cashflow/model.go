package cashflow

import (
	"time"

	"vetadmin/internal/domain/expenses"
	"vetadmin/internal/domain/sales"

	"github.com/shopspring/decimal"
)

// Report es el balance de caja de un día. Todos los importes van redondeados
// a 2 decimales y NetBalance = TotalIncome - TotalExpenses exactamente.
type Report struct {
	Date time.Time // fecha civil

	IncomeByMethod map[sales.PaymentMethod]decimal.Decimal
	TotalIncome    decimal.Decimal

	ExpensesByCategory map[expenses.Category]decimal.Decimal
	TotalExpenses      decimal.Decimal

	NetBalance decimal.Decimal
}

// RangeReport agrega un reporte por día (inclusive) y los totales del rango.
type RangeReport struct {
	From time.Time
	To   time.Time
	Days []Report

	IncomeByMethod     map[sales.PaymentMethod]decimal.Decimal
	TotalIncome        decimal.Decimal
	ExpensesByCategory map[expenses.Category]decimal.Decimal
	TotalExpenses      decimal.Decimal
	NetBalance         decimal.Decimal
}

// Package money concentra el redondeo y las comparaciones de importes.
// Todos los importes del sistema son decimal.Decimal con 2 decimales.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const Places = 2

// Epsilon es la tolerancia para decidir si una venta quedó saldada.
var Epsilon = decimal.New(1, -3)

// Round redondea a 2 decimales, mitad hacia arriba (para importes positivos).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Covers indica si paid alcanza total dentro de Epsilon.
func Covers(paid, total decimal.Decimal) bool {
	return paid.Add(Epsilon).GreaterThanOrEqual(total)
}

// Sum suma y redondea.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return Round(decimal.Sum(values[0], values[1:]...))
}

// Format devuelve el importe con exactamente 2 decimales ("45.00").
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Parse acepta "45", "45.5" o "45,50".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return decimal.NewFromString(s)
}

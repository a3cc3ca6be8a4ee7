package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category rubro del gasto.
type Category string

const (
	CategoryMedicalSupplies Category = "MEDICAL_SUPPLIES"
	CategoryRent            Category = "RENT"
	CategoryUtilities       Category = "UTILITIES"
	CategorySalaries        Category = "SALARIES"
	CategoryMarketing       Category = "MARKETING"
	CategoryMaintenance     Category = "MAINTENANCE"
	CategoryCleaning        Category = "CLEANING"
	CategoryEquipment       Category = "EQUIPMENT"
	CategoryTaxes           Category = "TAXES"
	CategoryInsurance       Category = "INSURANCE"
	CategoryTraining        Category = "TRAINING"
	CategorySoftware        Category = "SOFTWARE"
	CategoryMisc            Category = "MISC"
)

// Categories en el orden en que se muestran.
var Categories = []Category{
	CategoryMedicalSupplies, CategoryRent, CategoryUtilities, CategorySalaries,
	CategoryMarketing, CategoryMaintenance, CategoryCleaning, CategoryEquipment,
	CategoryTaxes, CategoryInsurance, CategoryTraining, CategorySoftware, CategoryMisc,
}

var labels = map[Category]string{
	CategoryMedicalSupplies: "Suministros Médicos",
	CategoryRent:            "Alquiler/Hipoteca",
	CategoryUtilities:       "Servicios Públicos (Luz, Agua)",
	CategorySalaries:        "Salarios y Honorarios",
	CategoryMarketing:       "Marketing y Publicidad",
	CategoryMaintenance:     "Mantenimiento y Reparaciones",
	CategoryCleaning:        "Limpieza",
	CategoryEquipment:       "Equipamiento Nuevo/Usado",
	CategoryTaxes:           "Impuestos y Licencias",
	CategoryInsurance:       "Seguros",
	CategoryTraining:        "Capacitación y Desarrollo",
	CategorySoftware:        "Software y Suscripciones",
	CategoryMisc:            "Gastos Varios",
}

func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Label devuelve el nombre para mostrar.
func (c Category) Label() string { return labels[c] }

// Expense es un gasto de la clínica. Date es una fecha civil (sin zona).
type Expense struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    Category

	CreatedAt time.Time
	UpdatedAt time.Time
}

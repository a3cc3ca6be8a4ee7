package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifica la tabla de referencia.
type Kind string

const (
	KindBreed           Kind = "breeds"
	KindDisease         Kind = "diseases"
	KindSurgery         Kind = "surgeries"
	KindProductCategory Kind = "product-categories"
)

var Kinds = []Kind{KindBreed, KindDisease, KindSurgery, KindProductCategory}

func (k Kind) Valid() bool {
	switch k {
	case KindBreed, KindDisease, KindSurgery, KindProductCategory:
		return true
	}
	return false
}

// Species son las especies atendidas. Las usan razas, enfermedades y mascotas.
// @Enum dog, cat, bird, rodent, reptile, other
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRodent  Species = "rodent"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRodent, SpeciesReptile, SpeciesOther:
		return true
	}
	return false
}

// Item es una entrada de catálogo. Los campos opcionales aplican según Kind:
//   - breeds: Species (obligatoria)
//   - diseases: Description, Species (especie afectada, opcional)
//   - surgeries: Description, EstimatedMinutes, EstimatedCost
//   - product-categories: Description, Active
type Item struct {
	ID   string
	Kind Kind
	Name string

	Description      string
	Species          Species
	EstimatedMinutes int
	EstimatedCost    *decimal.Decimal
	Active           bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

package pets

import (
	"time"

	"vetadmin/internal/domain/catalog"
)

// Sex define el sexo de la mascota.
// @Enum male, female
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Pet es la ficha de una mascota; ClientID es su dueño.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species catalog.Species
	BreedID string // referencia al catálogo de razas, opcional
	Sex     Sex

	BirthDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attachment guarda el archivo como texto (base64 o data URL), sin validar formato.
type Attachment struct {
	ID       string
	Name     string
	MimeType string
	Data     string
	Size     int64
}

// Event es una entrada de la historia clínica de una mascota.
// ReferenceID apunta al PetDisease / PetSurgery / turno que lo originó.
type Event struct {
	ID    string
	PetID string

	Type        EventType
	OccurredAt  time.Time
	Description string
	ReferenceID *string
	Attachments []Attachment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PetDisease registra un diagnóstico (fecha civil).
type PetDisease struct {
	ID        string
	PetID     string
	DiseaseID string
	Date      time.Time
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PetSurgery registra una cirugía realizada.
type PetSurgery struct {
	ID        string
	PetID     string
	SurgeryID string
	Date      time.Time
	Notes     string
	Cost      *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

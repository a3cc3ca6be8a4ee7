package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsultationInput es el formulario de consulta completo: descripción
// general, diagnósticos, cirugías, vacunas y adjuntos, en una sola llamada.
// Lo registra clinic.Store, que además marca el turno como atendido.
type ConsultationInput struct {
	PetID         string
	AppointmentID string // opcional
	Date          time.Time
	At            *time.Time
	Description   string
	Attachments   []AttachmentInput

	Diseases     []ConsultationDisease
	Surgeries    []ConsultationSurgery
	Vaccinations []ConsultationVaccination
}

type ConsultationDisease struct {
	DiseaseID string
	Notes     string
}

type ConsultationSurgery struct {
	SurgeryID string
	Notes     string
	Cost      *decimal.Decimal
}

type ConsultationVaccination struct {
	VaccineName string
	Notes       string
}

type ConsultationResult struct {
	Events    []Event
	Diseases  []PetDisease
	Surgeries []PetSurgery
}

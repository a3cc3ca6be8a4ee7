package events

// EventType tipo de evento de historia clínica.
// @Enum CONSULTATION, SURGERY, TREATMENT, DISEASE_REGISTERED, VACCINATION
type EventType string

const (
	EventTypeConsultation      EventType = "CONSULTATION"
	EventTypeSurgery           EventType = "SURGERY"
	EventTypeTreatment         EventType = "TREATMENT"
	EventTypeDiseaseRegistered EventType = "DISEASE_REGISTERED"
	EventTypeVaccination       EventType = "VACCINATION"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeConsultation, EventTypeSurgery, EventTypeTreatment,
		EventTypeDiseaseRegistered, EventTypeVaccination:
		return true
	}
	return false
}

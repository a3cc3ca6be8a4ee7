package appointments

import "time"

// Status estado del turno.
// @Enum PENDING, ATTENDED, ABSENT, CANCELLED
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAttended  Status = "ATTENDED"
	StatusAbsent    Status = "ABSENT"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAttended, StatusAbsent, StatusCancelled:
		return true
	}
	return false
}

// rank ordena turnos del mismo horario: pendiente, ausente, atendido, cancelado.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAbsent:
		return 1
	case StatusAttended:
		return 2
	default:
		return 3
	}
}

// Appointment es un turno. ScheduledAt combina fecha y hora en la zona de la clínica.
type Appointment struct {
	ID       string
	ClientID string
	PetID    string

	ScheduledAt time.Time
	Reason      string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

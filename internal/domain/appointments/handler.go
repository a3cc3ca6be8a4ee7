package appointments

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/upcoming", upcomingHandler(svc))
		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Patch("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))

		ar.Post("/{appointmentID}/attend", transitionHandler(svc, svc.Attend))
		ar.Post("/{appointmentID}/cancel", transitionHandler(svc, svc.Cancel))
		ar.Post("/{appointmentID}/absent", markAbsentHandler(svc))
	})
}

// createAppointmentRequest es el cuerpo para agendar un turno.
type createAppointmentRequest struct {
	ClientID string `json:"client_id"`
	PetID    string `json:"pet_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM
	Reason   string `json:"reason"`
}

type updateAppointmentRequest struct {
	ClientID *string `json:"client_id"`
	PetID    *string `json:"pet_id"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Reason   *string `json:"reason"`
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	PetID       string    `json:"pet_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      Status    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type absentResponse struct {
	Appointment appointmentResponse `json:"appointment"`
	EventID     string              `json:"event_id"`
}

// createAppointmentHandler godoc
// @Summary Agendar turno
// @Description Crea un turno en estado PENDING. La mascota debe pertenecer al cliente. Fecha y hora se interpretan en la zona horaria de la clínica.
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAppointmentRequest true "Turno"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "cliente o mascota inexistente"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		date, err := httpx.ParseDate("date", req.Date)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		in := CreateInput{ClientID: req.ClientID, PetID: req.PetID, Time: req.Time, Reason: req.Reason}
		if date != nil {
			in.Date = *date
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAppointmentResponse(a, svc.Location()))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos
// @Description Ordenados por fecha y hora; a igual horario PENDING, ABSENT, ATTENDED, CANCELLED.
// @Tags appointments
// @Produce json
// @Param date query string false "Día YYYY-MM-DD"
// @Param client_id query string false "ID de cliente"
// @Param pet_id query string false "ID de mascota"
// @Param status query string false "Estado"
// @Success 200 {array} appointmentResponse
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		date, err := httpx.ParseDate("date", q.Get("date"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		filter := ListFilter{
			ClientID: strings.TrimSpace(q.Get("client_id")),
			PetID:    strings.TrimSpace(q.Get("pet_id")),
			Status:   Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		}
		if date != nil {
			loc := svc.Location()
			from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
			to := from.AddDate(0, 0, 1)
			filter.From, filter.To = &from, &to
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeList(w, items, svc.Location())
	}
}

func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Upcoming(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		writeList(w, items, svc.Location())
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a, svc.Location()))
	}
}

func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		in := UpdateInput{ClientID: req.ClientID, PetID: req.PetID, Time: req.Time, Reason: req.Reason}
		if req.Date != nil {
			date, err := httpx.ParseDate("date", *req.Date)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			if date == nil {
				date = &time.Time{}
			}
			in.Date = date
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a, svc.Location()))
	}
}

func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// transitionHandler atiende attend y cancel, que solo difieren en el estado destino.
func transitionHandler(svc *Service, move func(ctx context.Context, id string) (Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := move(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a, svc.Location()))
	}
}

// markAbsentHandler godoc
// @Summary Marcar ausente
// @Description Pasa un turno PENDING a ABSENT y agrega a la historia de la mascota un evento CONSULTATION que lo referencia.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} absentResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "not_found"
// @Failure 500 {object} map[string]string "partial_failure"
// @Router /appointments/{appointmentID}/absent [post]
func markAbsentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ev, err := svc.MarkAbsent(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, absentResponse{
			Appointment: toAppointmentResponse(a, svc.Location()),
			EventID:     ev.ID,
		})
	}
}

func writeList(w http.ResponseWriter, items []Appointment, loc *time.Location) {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(a, loc))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toAppointmentResponse(a Appointment, loc *time.Location) appointmentResponse {
	local := a.ScheduledAt.In(loc)
	return appointmentResponse{
		ID:          a.ID,
		ClientID:    a.ClientID,
		PetID:       a.PetID,
		Date:        local.Format(httpx.DateLayout),
		Time:        local.Format(TimeLayout),
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      a.Status,
		UpdatedAt:   a.UpdatedAt,
	}
}

package events

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ConsultationRecorder registra una consulta completa (ver clinic.Store).
type ConsultationRecorder interface {
	RecordConsultation(ctx context.Context, in ConsultationInput) (ConsultationResult, error)
}

func RegisterRoutes(r chi.Router, svc *Service, consults ConsultationRecorder) {
	r.Route("/pets/{petID}/history", func(hr chi.Router) {
		hr.Post("/", createEventHandler(svc))
		hr.Get("/", listEventsHandler(svc))

		hr.Post("/diseases", recordDiseaseHandler(svc))
		hr.Get("/diseases", listDiseasesHandler(svc))
		hr.Post("/surgeries", recordSurgeryHandler(svc))
		hr.Get("/surgeries", listSurgeriesHandler(svc))
		hr.Post("/consultations", recordConsultationHandler(consults))

		hr.Get("/{eventID}", getEventHandler(svc))
		hr.Patch("/{eventID}", updateEventHandler(svc))
		hr.Delete("/{eventID}", deleteEventHandler(svc))
	})
}

type attachmentRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64 o data URL
	Size     int64  `json:"size"` // opcional
}

// createEventRequest es el cuerpo para agregar un evento a la historia clínica.
type createEventRequest struct {
	Type        EventType           `json:"type" enums:"CONSULTATION,SURGERY,TREATMENT,DISEASE_REGISTERED,VACCINATION"`
	OccurredAt  string              `json:"occurred_at"` // RFC3339, opcional
	Description string              `json:"description"`
	ReferenceID string              `json:"reference_id"`
	Attachments []attachmentRequest `json:"attachments"`
}

// updateEventRequest: campos ausentes no se tocan; attachments reemplaza la lista.
type updateEventRequest struct {
	OccurredAt  *string              `json:"occurred_at"`
	Description *string              `json:"description"`
	Attachments *[]attachmentRequest `json:"attachments"`
}

type attachmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
	Size     int64  `json:"size"`
}

// eventResponse representa una entrada de la historia clínica.
type eventResponse struct {
	ID          string               `json:"id"`
	PetID       string               `json:"pet_id"`
	Type        EventType            `json:"type"`
	OccurredAt  time.Time            `json:"occurred_at"`
	Description string               `json:"description"`
	ReferenceID *string              `json:"reference_id"`
	Attachments []attachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type recordDiseaseRequest struct {
	DiseaseID  string `json:"disease_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Notes      string `json:"notes"`
	OccurredAt string `json:"occurred_at"` // RFC3339, opcional
}

type recordSurgeryRequest struct {
	SurgeryID  string           `json:"surgery_id"`
	Date       string           `json:"date"`
	Notes      string           `json:"notes"`
	Cost       *decimal.Decimal `json:"cost" swaggertype:"string"`
	OccurredAt string           `json:"occurred_at"`
}

type petDiseaseResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	DiseaseID string    `json:"disease_id"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type petSurgeryResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	SurgeryID string    `json:"surgery_id"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	Cost      *string   `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

type diseaseRecordedResponse struct {
	Disease petDiseaseResponse `json:"disease"`
	Event   eventResponse      `json:"event"`
}

type surgeryRecordedResponse struct {
	Surgery petSurgeryResponse `json:"surgery"`
	Event   eventResponse      `json:"event"`
}

type consultationRequest struct {
	AppointmentID string              `json:"appointment_id"`
	Date          string              `json:"date"`
	OccurredAt    string              `json:"occurred_at"`
	Description   string              `json:"description"`
	Attachments   []attachmentRequest `json:"attachments"`
	Diseases      []struct {
		DiseaseID string `json:"disease_id"`
		Notes     string `json:"notes"`
	} `json:"diseases"`
	Surgeries []struct {
		SurgeryID string           `json:"surgery_id"`
		Notes     string           `json:"notes"`
		Cost      *decimal.Decimal `json:"cost" swaggertype:"string"`
	} `json:"surgeries"`
	Vaccinations []struct {
		VaccineName string `json:"vaccine_name"`
		Notes       string `json:"notes"`
	} `json:"vaccinations"`
}

type consultationResponse struct {
	Events    []eventResponse      `json:"events"`
	Diseases  []petDiseaseResponse `json:"diseases"`
	Surgeries []petSurgeryResponse `json:"surgeries"`
}

// createEventHandler godoc
// @Summary Agregar evento a la historia clínica
// @Description Agrega un evento a la historia de la mascota. `occurred_at` (RFC3339) es opcional; por defecto, ahora. Los adjuntos se guardan como texto y solo se valida su tamaño.
// @Tags history
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body createEventRequest true "Evento"
// @Success 201 {object} eventResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{petID}/history [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		at, err := httpx.ParseTimestamp("occurred_at", req.OccurredAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		e, err := svc.AddEvent(r.Context(), AddInput{
			PetID:       chi.URLParam(r, "petID"),
			Type:        EventType(strings.ToUpper(strings.TrimSpace(string(req.Type)))),
			Description: req.Description,
			ReferenceID: req.ReferenceID,
			At:          at,
			Attachments: toAttachmentInputs(req.Attachments),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listEventsHandler godoc
// @Summary Listar historia clínica
// @Description Eventos de la mascota del más reciente al más antiguo.
// @Tags history
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param type query string false "Tipos separados por coma"
// @Param from query string false "Desde (RFC3339)"
// @Param to query string false "Hasta (RFC3339)"
// @Param q query string false "Texto a buscar en la descripción"
// @Param limit query int false "Máximo de resultados"
// @Success 200 {array} eventResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{petID}/history [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		if raw := strings.TrimSpace(q.Get("type")); raw != "" {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					filter.Types = append(filter.Types, EventType(strings.ToUpper(t)))
				}
			}
		}

		var err error
		if filter.From, err = httpx.ParseTimestamp("from", q.Get("from")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		if filter.To, err = httpx.ParseTimestamp("to", q.Get("to")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		filter.Query = strings.TrimSpace(q.Get("q"))

		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				httpx.WriteError(w, apperr.Invalid("invalid limit"))
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByPet(r.Context(), chi.URLParam(r, "petID"), filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.getForPet(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "eventID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		in := UpdateInput{Description: req.Description}
		if req.OccurredAt != nil {
			at, err := httpx.ParseTimestamp("occurred_at", *req.OccurredAt)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			if at == nil {
				httpx.WriteError(w, apperr.Invalid("occurred_at cannot be empty"))
				return
			}
			in.OccurredAt = at
		}
		if req.Attachments != nil {
			atts := toAttachmentInputs(*req.Attachments)
			in.Attachments = &atts
		}

		e, err := svc.UpdateEvent(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "eventID"), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteEvent(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "eventID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// recordDiseaseHandler godoc
// @Summary Registrar enfermedad
// @Description Guarda el diagnóstico y agrega un evento DISEASE_REGISTERED que lo referencia. Si el segundo paso falla responde 500 partial_failure.
// @Tags history
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body recordDiseaseRequest true "Diagnóstico"
// @Success 201 {object} diseaseRecordedResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "mascota o enfermedad inexistente"
// @Failure 500 {object} map[string]string "partial_failure"
// @Router /pets/{petID}/history/diseases [post]
func recordDiseaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordDiseaseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		date, at, err := parseRecordTimes(req.Date, req.OccurredAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		d, e, err := svc.RecordDisease(r.Context(), DiseaseInput{
			PetID:     chi.URLParam(r, "petID"),
			DiseaseID: req.DiseaseID,
			Date:      date,
			Notes:     req.Notes,
			At:        at,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, diseaseRecordedResponse{
			Disease: toPetDiseaseResponse(d),
			Event:   toEventResponse(e),
		})
	}
}

func listDiseasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPetDiseases(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]petDiseaseResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toPetDiseaseResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// recordSurgeryHandler godoc
// @Summary Registrar cirugía
// @Description Guarda la cirugía y agrega un evento SURGERY que la referencia. `cost` es opcional.
// @Tags history
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body recordSurgeryRequest true "Cirugía"
// @Success 201 {object} surgeryRecordedResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "mascota o cirugía inexistente"
// @Failure 500 {object} map[string]string "partial_failure"
// @Router /pets/{petID}/history/surgeries [post]
func recordSurgeryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordSurgeryRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		date, at, err := parseRecordTimes(req.Date, req.OccurredAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		s, e, err := svc.RecordSurgery(r.Context(), SurgeryInput{
			PetID:     chi.URLParam(r, "petID"),
			SurgeryID: req.SurgeryID,
			Date:      date,
			Notes:     req.Notes,
			Cost:      req.Cost,
			At:        at,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, surgeryRecordedResponse{
			Surgery: toPetSurgeryResponse(s),
			Event:   toEventResponse(e),
		})
	}
}

func listSurgeriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPetSurgeries(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]petSurgeryResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toPetSurgeryResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// recordConsultationHandler godoc
// @Summary Registrar consulta
// @Description Registra en una sola llamada la consulta, los diagnósticos, las cirugías, las vacunas y los adjuntos. Si se indica `appointment_id` el turno pasa a ATTENDED.
// @Tags history
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body consultationRequest true "Consulta"
// @Success 201 {object} consultationResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "not_found"
// @Failure 500 {object} map[string]string "partial_failure"
// @Router /pets/{petID}/history/consultations [post]
func recordConsultationHandler(rec ConsultationRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req consultationRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}
		date, at, err := parseRecordTimes(req.Date, req.OccurredAt)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		in := ConsultationInput{
			PetID:         chi.URLParam(r, "petID"),
			AppointmentID: req.AppointmentID,
			Date:          date,
			At:            at,
			Description:   req.Description,
			Attachments:   toAttachmentInputs(req.Attachments),
		}
		for _, d := range req.Diseases {
			in.Diseases = append(in.Diseases, ConsultationDisease{DiseaseID: d.DiseaseID, Notes: d.Notes})
		}
		for _, s := range req.Surgeries {
			in.Surgeries = append(in.Surgeries, ConsultationSurgery{SurgeryID: s.SurgeryID, Notes: s.Notes, Cost: s.Cost})
		}
		for _, v := range req.Vaccinations {
			in.Vaccinations = append(in.Vaccinations, ConsultationVaccination{VaccineName: v.VaccineName, Notes: v.Notes})
		}

		res, err := rec.RecordConsultation(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := consultationResponse{
			Events:    make([]eventResponse, 0, len(res.Events)),
			Diseases:  make([]petDiseaseResponse, 0, len(res.Diseases)),
			Surgeries: make([]petSurgeryResponse, 0, len(res.Surgeries)),
		}
		for _, e := range res.Events {
			out.Events = append(out.Events, toEventResponse(e))
		}
		for _, d := range res.Diseases {
			out.Diseases = append(out.Diseases, toPetDiseaseResponse(d))
		}
		for _, s := range res.Surgeries {
			out.Surgeries = append(out.Surgeries, toPetSurgeryResponse(s))
		}
		httpx.WriteJSON(w, http.StatusCreated, out)
	}
}

// parseRecordTimes: date es obligatoria (YYYY-MM-DD), occurred_at opcional.
func parseRecordTimes(date, occurredAt string) (time.Time, *time.Time, error) {
	d, err := httpx.ParseDate("date", date)
	if err != nil {
		return time.Time{}, nil, err
	}
	if d == nil {
		return time.Time{}, nil, apperr.Invalid("date is required")
	}
	at, err := httpx.ParseTimestamp("occurred_at", occurredAt)
	if err != nil {
		return time.Time{}, nil, err
	}
	return *d, at, nil
}

func toAttachmentInputs(in []attachmentRequest) []AttachmentInput {
	out := make([]AttachmentInput, 0, len(in))
	for _, a := range in {
		out = append(out, AttachmentInput{Name: a.Name, MimeType: a.MimeType, Data: a.Data, Size: a.Size})
	}
	return out
}

func toEventResponse(e Event) eventResponse {
	atts := make([]attachmentResponse, 0, len(e.Attachments))
	for _, a := range e.Attachments {
		atts = append(atts, attachmentResponse{ID: a.ID, Name: a.Name, MimeType: a.MimeType, Data: a.Data, Size: a.Size})
	}
	return eventResponse{
		ID:          e.ID,
		PetID:       e.PetID,
		Type:        e.Type,
		OccurredAt:  e.OccurredAt,
		Description: e.Description,
		ReferenceID: e.ReferenceID,
		Attachments: atts,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toPetDiseaseResponse(d PetDisease) petDiseaseResponse {
	return petDiseaseResponse{
		ID:        d.ID,
		PetID:     d.PetID,
		DiseaseID: d.DiseaseID,
		Date:      httpx.FormatDate(&d.Date),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}
}

func toPetSurgeryResponse(s PetSurgery) petSurgeryResponse {
	var cost *string
	if s.Cost != nil {
		c := money.Format(*s.Cost)
		cost = &c
	}
	return petSurgeryResponse{
		ID:        s.ID,
		PetID:     s.PetID,
		SurgeryID: s.SurgeryID,
		Date:      httpx.FormatDate(&s.Date),
		Notes:     s.Notes,
		Cost:      cost,
		CreatedAt: s.CreatedAt,
	}
}

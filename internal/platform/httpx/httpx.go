// Package httpx reúne los helpers HTTP que antes estaban duplicados en cada
// handler (writeJSON) y la traducción de la taxonomía de errores a status.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"
)

const DateLayout = "2006-01-02"

// MaxBodyBytes limita el body de los requests JSON (una consulta puede traer
// varios adjuntos).
var MaxBodyBytes int64 = 64 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error     string              `json:"error"`
	Detail    string              `json:"detail,omitempty"`
	Product   *stockErrorDetail   `json:"product,omitempty"`
	Operation *partialErrorDetail `json:"operation,omitempty"`
}

type stockErrorDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type partialErrorDetail struct {
	Name      string   `json:"name"`
	Completed []string `json:"completed"`
	Failed    string   `json:"failed"`
}

// WriteError traduce errores de dominio:
// NotFound->404, Validation->400, InsufficientStock->409, PartialFailure y resto->500.
func WriteError(w http.ResponseWriter, err error) {
	var (
		ise *apperr.InsufficientStockError
		pf  *multistep.PartialFailureError
	)

	switch {
	case errors.As(err, &pf):
		WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "partial_failure",
			Detail: pf.Err.Error(),
			Operation: &partialErrorDetail{
				Name:      pf.Op,
				Completed: pf.Completed,
				Failed:    pf.Failed,
			},
		})
	case errors.As(err, &ise):
		WriteJSON(w, http.StatusConflict, errorResponse{
			Error:  "insufficient_stock",
			Detail: err.Error(),
			Product: &stockErrorDetail{
				ID:        ise.ProductID,
				Name:      ise.ProductName,
				Requested: ise.Requested,
				Available: ise.Available,
			},
		})
	case errors.Is(err, apperr.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Detail: err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_error", Detail: err.Error()})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

// DecodeJSON decodifica el body; un body inválido es ErrValidation.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Invalid(fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}

// ParseDate acepta YYYY-MM-DD; vacío devuelve nil.
func ParseDate(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, apperr.Invalid(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}

// ParseTimestamp acepta RFC3339; vacío devuelve nil.
func ParseTimestamp(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperr.Invalid(field + " must be RFC3339")
	}
	return &t, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

package pets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// Deleter borra una mascota con su cascada (ver clinic.Store).
type Deleter interface {
	DeletePet(ctx context.Context, petID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, del Deleter) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(del))
	})
}

type createPetRequest struct {
	ClientID  string          `json:"client_id"`
	Name      string          `json:"name"`
	Species   catalog.Species `json:"species"`
	BreedID   string          `json:"breed_id"`
	Sex       Sex             `json:"sex"`
	BirthDate string          `json:"birth_date"` // YYYY-MM-DD opcional
}

type updatePetRequest struct {
	ClientID *string          `json:"client_id"`
	Name     *string          `json:"name"`
	Species  *catalog.Species `json:"species"`
	BreedID  *string          `json:"breed_id"`
	Sex      *Sex             `json:"sex"`
}

type petResponse struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Name      string          `json:"name"`
	Species   catalog.Species `json:"species"`
	BreedID   string          `json:"breed_id,omitempty"`
	Sex       Sex             `json:"sex,omitempty"`
	BirthDate string          `json:"birth_date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		bd, err := httpx.ParseDate("birth_date", req.BirthDate)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   req.Species,
			BreedID:   req.BreedID,
			Sex:       req.Sex,
			BirthDate: bd,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler acepta ?client_id= para filtrar por dueño.
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Pet
			err   error
		)
		if clientID := strings.TrimSpace(r.URL.Query().Get("client_id")); clientID != "" {
			items, err = svc.ListByClient(r.Context(), clientID)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decodificamos a map primero para distinguir "birth_date": null de "no enviado".
		var raw map[string]json.RawMessage
		if err := httpx.DecodeJSON(r, &raw); err != nil {
			httpx.WriteError(w, err)
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				httpx.WriteError(w, apperr.Invalid("invalid json"))
				return
			}
		}

		bd := PatchDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					httpx.WriteError(w, apperr.Invalid("birth_date must be YYYY-MM-DD or null"))
					return
				}
				t, err := httpx.ParseDate("birth_date", s)
				if err != nil {
					httpx.WriteError(w, err)
					return
				}
				bd.Value = t
			}
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), UpdateInput{
			ClientID:  req.ClientID,
			Name:      req.Name,
			Species:   req.Species,
			BreedID:   req.BreedID,
			Sex:       req.Sex,
			BirthDate: bd,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(del Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := del.DeletePet(r.Context(), chi.URLParam(r, "petID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		Species:   p.Species,
		BreedID:   p.BreedID,
		Sex:       p.Sex,
		BirthDate: httpx.FormatDate(p.BirthDate),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

package catalog

import (
	"net/http"
	"time"

	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/catalog/{kind}", func(cr chi.Router) {
		cr.Get("/", listItemsHandler(svc))
		cr.Post("/", createItemHandler(svc))
		cr.Get("/{itemID}", getItemHandler(svc))
		cr.Put("/{itemID}", updateItemHandler(svc))
		cr.Delete("/{itemID}", deleteItemHandler(svc))
	})
}

type itemRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Species          Species          `json:"species"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost"`
	Active           *bool            `json:"active"`
}

type itemResponse struct {
	ID               string    `json:"id"`
	Kind             Kind      `json:"kind"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Species          Species   `json:"species,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	EstimatedCost    string    `json:"estimated_cost,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (req itemRequest) toInput() Input {
	return Input{
		Name:             req.Name,
		Description:      req.Description,
		Species:          req.Species,
		EstimatedMinutes: req.EstimatedMinutes,
		EstimatedCost:    req.EstimatedCost,
		Active:           req.Active,
	}
}

func kindParam(r *http.Request) Kind {
	return Kind(chi.URLParam(r, "kind"))
}

func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), kindParam(r))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		it, err := svc.Create(r.Context(), kindParam(r), req.toInput())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.GetByID(r.Context(), kindParam(r), chi.URLParam(r, "itemID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		it, err := svc.Update(r.Context(), kindParam(r), chi.URLParam(r, "itemID"), req.toInput())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), kindParam(r), chi.URLParam(r, "itemID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toItemResponse(it Item) itemResponse {
	out := itemResponse{
		ID:               it.ID,
		Kind:             it.Kind,
		Name:             it.Name,
		Description:      it.Description,
		Species:          it.Species,
		EstimatedMinutes: it.EstimatedMinutes,
		Active:           it.Active,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
	if it.EstimatedCost != nil {
		out.EstimatedCost = money.Format(*it.EstimatedCost)
	}
	return out
}

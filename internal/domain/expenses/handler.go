package expenses

import (
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/expenses", func(er chi.Router) {
		er.Post("/", createExpenseHandler(svc))
		er.Get("/", listExpensesHandler(svc))
		er.Get("/categories", listCategoriesHandler())
		er.Get("/{expenseID}", getExpenseHandler(svc))
		er.Put("/{expenseID}", updateExpenseHandler(svc))
		er.Delete("/{expenseID}", deleteExpenseHandler(svc))
	})
}

// expenseRequest: amount acepta número o string.
type expenseRequest struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Category    Category        `json:"category"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    Category  `json:"category"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type categoryResponse struct {
	Code  Category `json:"code"`
	Label string   `json:"label"`
}

// createExpenseHandler godoc
// @Summary Registrar gasto
// @Tags expenses
// @Accept json
// @Produce json
// @Param payload body expenseRequest true "Gasto"
// @Success 201 {object} expenseResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Router /expenses [post]
func createExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeInput(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		e, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toExpenseResponse(e))
	}
}

// listExpensesHandler godoc
// @Summary Listar gastos
// @Description Del más reciente al más antiguo. `date` filtra un día; `from`/`to` un rango inclusivo.
// @Tags expenses
// @Produce json
// @Param date query string false "Día YYYY-MM-DD"
// @Param from query string false "Desde YYYY-MM-DD"
// @Param to query string false "Hasta YYYY-MM-DD"
// @Param category query string false "Categoría"
// @Success 200 {array} expenseResponse
// @Router /expenses [get]
func listExpensesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		date, err := httpx.ParseDate("date", q.Get("date"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if date != nil {
			filter.From, filter.To = date, date
		} else {
			if filter.From, err = httpx.ParseDate("from", q.Get("from")); err != nil {
				httpx.WriteError(w, err)
				return
			}
			if filter.To, err = httpx.ParseDate("to", q.Get("to")); err != nil {
				httpx.WriteError(w, err)
				return
			}
		}
		filter.Category = Category(strings.ToUpper(strings.TrimSpace(q.Get("category"))))

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		out := make([]expenseResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toExpenseResponse(e))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func listCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]categoryResponse, 0, len(Categories))
		for _, c := range Categories {
			out = append(out, categoryResponse{Code: c, Label: c.Label()})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "expenseID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(e))
	}
}

func updateExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeInput(r)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		e, err := svc.Update(r.Context(), chi.URLParam(r, "expenseID"), in)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(e))
	}
}

func deleteExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeInput(r *http.Request) (Input, error) {
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return Input{}, err
	}
	date, err := httpx.ParseDate("date", req.Date)
	if err != nil {
		return Input{}, err
	}
	if date == nil {
		return Input{}, apperr.Invalid("date is required")
	}
	return Input{
		Date:        *date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    Category(strings.ToUpper(strings.TrimSpace(string(req.Category)))),
	}, nil
}

func toExpenseResponse(e Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Date:        httpx.FormatDate(&e.Date),
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		Category:    e.Category,
		UpdatedAt:   e.UpdatedAt,
	}
}

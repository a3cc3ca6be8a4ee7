package cashflow

import (
	"net/http"

	"vetadmin/internal/domain/expenses"
	"vetadmin/internal/domain/sales"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports/cash-flow", func(rr chi.Router) {
		rr.Get("/", dailyHandler(svc))
		rr.Get("/range", rangeHandler(svc))
	})
}

// reportResponse: importes como string con 2 decimales.
type reportResponse struct {
	Date               string            `json:"date"`
	IncomeByMethod     map[string]string `json:"income_by_method"`
	TotalIncome        string            `json:"total_income"`
	ExpensesByCategory map[string]string `json:"expenses_by_category"`
	TotalExpenses      string            `json:"total_expenses"`
	NetBalance         string            `json:"net_balance"`
}

type rangeResponse struct {
	From               string            `json:"from"`
	To                 string            `json:"to"`
	Days               []reportResponse  `json:"days"`
	IncomeByMethod     map[string]string `json:"income_by_method"`
	TotalIncome        string            `json:"total_income"`
	ExpensesByCategory map[string]string `json:"expenses_by_category"`
	TotalExpenses      string            `json:"total_expenses"`
	NetBalance         string            `json:"net_balance"`
}

// dailyHandler godoc
// @Summary Reporte de caja diario
// @Description Ingresos por medio de pago, gastos por categoría y balance neto del día. Los pagos se asignan al día según la zona horaria de la clínica. Sin `date` usa hoy.
// @Tags reports
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param date query string false "Día YYYY-MM-DD"
// @Success 200 {object} reportResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Router /reports/cash-flow [get]
func dailyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := httpx.ParseDate("date", r.URL.Query().Get("date"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		d := svc.Today()
		if date != nil {
			d = *date
		}

		rep, err := svc.DailyCashFlow(r.Context(), d)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

// rangeHandler godoc
// @Summary Reporte de caja por rango
// @Description Un reporte por día entre `from` y `to` (inclusive, máximo 366 días) más los totales del rango.
// @Tags reports
// @Produce json
// @Param from query string true "Desde YYYY-MM-DD"
// @Param to query string true "Hasta YYYY-MM-DD"
// @Success 200 {object} rangeResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Router /reports/cash-flow/range [get]
func rangeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, err := httpx.ParseDate("from", q.Get("from"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		to, err := httpx.ParseDate("to", q.Get("to"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if from == nil || to == nil {
			httpx.WriteError(w, apperr.Invalid("from and to are required"))
			return
		}

		rep, err := svc.RangeSummary(r.Context(), *from, *to)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := rangeResponse{
			From:               httpx.FormatDate(&rep.From),
			To:                 httpx.FormatDate(&rep.To),
			Days:               make([]reportResponse, 0, len(rep.Days)),
			IncomeByMethod:     formatByMethod(rep.IncomeByMethod),
			TotalIncome:        money.Format(rep.TotalIncome),
			ExpensesByCategory: formatByCategory(rep.ExpensesByCategory),
			TotalExpenses:      money.Format(rep.TotalExpenses),
			NetBalance:         money.Format(rep.NetBalance),
		}
		for _, d := range rep.Days {
			out.Days = append(out.Days, toReportResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toReportResponse(r Report) reportResponse {
	return reportResponse{
		Date:               httpx.FormatDate(&r.Date),
		IncomeByMethod:     formatByMethod(r.IncomeByMethod),
		TotalIncome:        money.Format(r.TotalIncome),
		ExpensesByCategory: formatByCategory(r.ExpensesByCategory),
		TotalExpenses:      money.Format(r.TotalExpenses),
		NetBalance:         money.Format(r.NetBalance),
	}
}

func formatByMethod(m map[sales.PaymentMethod]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[string(k)] = money.Format(v)
	}
	return out
}

func formatByCategory(m map[expenses.Category]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[string(k)] = money.Format(v)
	}
	return out
}

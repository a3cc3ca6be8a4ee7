package sales

import (
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/platform/httpx"
	"vetadmin/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/sales", func(sr chi.Router) {
		sr.Post("/", createSaleHandler(svc))
		sr.Get("/", listSalesHandler(svc))
		sr.Get("/{saleID}", getSaleHandler(svc))
		sr.Delete("/{saleID}", deleteSaleHandler(svc))
		sr.Post("/{saleID}/cancel", cancelSaleHandler(svc))
		sr.Get("/{saleID}/balance", balanceHandler(svc))

		sr.Post("/{saleID}/payments", recordPaymentHandler(svc))
		sr.Get("/{saleID}/payments", listPaymentsHandler(svc))
	})
}

type saleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// createSaleRequest es el cuerpo para registrar una venta.
type createSaleRequest struct {
	ClientID string            `json:"client_id"`
	PetID    string            `json:"pet_id"` // opcional
	Lines    []saleLineRequest `json:"lines"`
}

type saleLineResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// saleResponse: importes como string con 2 decimales.
type saleResponse struct {
	ID        string             `json:"id"`
	ClientID  *string            `json:"client_id"`
	PetID     *string            `json:"pet_id"`
	SoldAt    time.Time          `json:"sold_at"`
	Lines     []saleLineResponse `json:"lines"`
	Total     string             `json:"total"`
	Status    Status             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// recordPaymentRequest: amount acepta número o string.
type recordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Method PaymentMethod   `json:"method" enums:"CASH,TRANSFER,CARD"`
}

type paymentResponse struct {
	ID     string        `json:"id"`
	SaleID string        `json:"sale_id"`
	Amount string        `json:"amount"`
	Method PaymentMethod `json:"method"`
	PaidAt time.Time     `json:"paid_at"`
}

type balanceResponse struct {
	SaleID string `json:"sale_id"`
	Status Status `json:"status"`
	Total  string `json:"total"`
	Paid   string `json:"paid"`
	Due    string `json:"due"`
}

// createSaleHandler godoc
// @Summary Registrar venta
// @Description Valida cliente, mascota (opcional), productos y stock antes de escribir. Si todo es válido guarda la venta en PENDING con los precios vigentes y descuenta stock. Si un paso de escritura falla después de otro ya aplicado responde 500 con el detalle de pasos (partial_failure).
// @Tags sales
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createSaleRequest true "Venta"
// @Success 201 {object} saleResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "cliente, mascota o producto inexistente"
// @Failure 409 {object} map[string]string "insufficient_stock"
// @Failure 500 {object} map[string]string "partial_failure / internal_error"
// @Router /sales [post]
func createSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSaleRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		lines := make([]LineInput, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, LineInput{ProductID: l.ProductID, Quantity: l.Quantity})
		}

		sale, err := svc.CreateSale(r.Context(), CreateInput{
			ClientID: req.ClientID,
			PetID:    req.PetID,
			Lines:    lines,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toSaleResponse(sale))
	}
}

// listSalesHandler godoc
// @Summary Listar ventas
// @Description Ventas de la más reciente a la más antigua. `date` (YYYY-MM-DD) filtra un día en la zona horaria de la clínica; si no, `from`/`to` (RFC3339) filtran el rango.
// @Tags sales
// @Produce json
// @Param date query string false "Día YYYY-MM-DD"
// @Param from query string false "Desde (RFC3339, inclusive)"
// @Param to query string false "Hasta (RFC3339, exclusivo)"
// @Param client_id query string false "ID de cliente"
// @Param status query string false "PENDING, PAID o CANCELLED"
// @Success 200 {array} saleResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Router /sales [get]
func listSalesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			items []Sale
			err   error
		)

		date, err := httpx.ParseDate("date", q.Get("date"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		if date != nil {
			items, err = svc.ListByDate(r.Context(), *date)
		} else {
			filter := ListFilter{
				ClientID: strings.TrimSpace(q.Get("client_id")),
				Status:   Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
			}
			if filter.From, err = httpx.ParseTimestamp("from", q.Get("from")); err != nil {
				httpx.WriteError(w, err)
				return
			}
			if filter.To, err = httpx.ParseTimestamp("to", q.Get("to")); err != nil {
				httpx.WriteError(w, err)
				return
			}
			items, err = svc.ListSales(r.Context(), filter)
		}
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]saleResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSaleResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sale, err := svc.GetSale(r.Context(), chi.URLParam(r, "saleID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
	}
}

func deleteSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteSale(r.Context(), chi.URLParam(r, "saleID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// cancelSaleHandler godoc
// @Summary Cancelar venta
// @Description Pasa una venta PENDING a CANCELLED. No repone stock. Una venta PAID no se puede cancelar.
// @Tags sales
// @Produce json
// @Param saleID path string true "ID de la venta"
// @Success 200 {object} saleResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "not_found"
// @Router /sales/{saleID}/cancel [post]
func cancelSaleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sale, err := svc.CancelSale(r.Context(), chi.URLParam(r, "saleID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
	}
}

func balanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.SaleBalance(r.Context(), chi.URLParam(r, "saleID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, balanceResponse{
			SaleID: b.SaleID,
			Status: b.Status,
			Total:  money.Format(b.Total),
			Paid:   money.Format(b.Paid),
			Due:    money.Format(b.Due),
		})
	}
}

// recordPaymentHandler godoc
// @Summary Registrar pago
// @Description Registra un pago sobre la venta. Si la suma de pagos cubre el total (tolerancia 0.001) la venta pasa a PAID. Se acepta sobrepago. No es idempotente.
// @Tags sales
// @Accept json
// @Produce json
// @Param saleID path string true "ID de la venta"
// @Param payload body recordPaymentRequest true "Pago"
// @Success 201 {object} paymentResponse
// @Failure 400 {object} map[string]string "validation_error"
// @Failure 404 {object} map[string]string "not_found"
// @Failure 500 {object} map[string]string "partial_failure"
// @Router /sales/{saleID}/payments [post]
func recordPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordPaymentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		p, err := svc.RecordPayment(r.Context(), PaymentInput{
			SaleID: chi.URLParam(r, "saleID"),
			Amount: req.Amount,
			Method: PaymentMethod(strings.ToUpper(strings.TrimSpace(string(req.Method)))),
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPaymentResponse(p))
	}
}

func listPaymentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPayments(r.Context(), chi.URLParam(r, "saleID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]paymentResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPaymentResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toSaleResponse(s Sale) saleResponse {
	lines := make([]saleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, saleLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   money.Format(l.UnitPrice),
			Subtotal:    money.Format(money.Round(l.Subtotal())),
		})
	}
	return saleResponse{
		ID:        s.ID,
		ClientID:  s.ClientID,
		PetID:     s.PetID,
		SoldAt:    s.SoldAt,
		Lines:     lines,
		Total:     money.Format(s.Total),
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toPaymentResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:     p.ID,
		SaleID: p.SaleID,
		Amount: money.Format(p.Amount),
		Method: p.Method,
		PaidAt: p.PaidAt,
	}
}

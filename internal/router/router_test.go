package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vetadmin/internal/router"
)

const staffID = "staff-1"

func TestHTTP_RequiresUser(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/api/v1/clients", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected health ok, got %d %s", st, string(body))
	}

	st, _ = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", st)
	}
}

func TestHTTP_EndToEnd_SalePaymentCashFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createID(t, ts.URL, "/api/v1/clients", map[string]any{"name": "Ana Pérez", "phone": "555-1234"})
	productID := createID(t, ts.URL, "/api/v1/products", map[string]any{
		"name":       "Vacuna antirrábica",
		"stock":      10,
		"unit_price": "15.00",
	})

	// 1) stock insuficiente => 409 y nada cambia
	{
		st, body := doReq(t, ts.URL, "POST", "/api/v1/sales", staffID, map[string]any{
			"client_id": clientID,
			"lines":     []map[string]any{{"product_id": productID, "quantity": 11}},
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409, got %d body=%s", st, string(body))
		}
	}

	// 2) venta de 3 unidades => total 45.00, PENDING
	var sale struct {
		ID     string `json:"id"`
		Total  string `json:"total"`
		Status string `json:"status"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/api/v1/sales", staffID, map[string]any{
			"client_id": clientID,
			"lines":     []map[string]any{{"product_id": productID, "quantity": 3}},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create sale, got %d body=%s", st, string(body))
		}
		_ = json.Unmarshal(body, &sale)
		if sale.Total != "45.00" || sale.Status != "PENDING" {
			t.Fatalf("unexpected sale: %+v", sale)
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/products/"+productID, staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("get product: %d", st)
		}
		var p struct {
			Stock int `json:"stock"`
		}
		_ = json.Unmarshal(body, &p)
		if p.Stock != 7 {
			t.Fatalf("expected stock 7, got %d", p.Stock)
		}
	}

	// 3) dos pagos; el segundo salda la venta
	pay := func(amount any, method string) {
		t.Helper()
		st, body := doReq(t, ts.URL, "POST", "/api/v1/sales/"+sale.ID+"/payments", staffID, map[string]any{
			"amount": amount,
			"method": method,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 payment, got %d body=%s", st, string(body))
		}
	}
	pay("20", "CASH")
	assertSaleStatus(t, ts.URL, sale.ID, "PENDING")
	pay(25, "CARD")
	assertSaleStatus(t, ts.URL, sale.ID, "PAID")

	// 4) monto inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/v1/sales/"+sale.ID+"/payments", staffID, map[string]any{
			"amount": 0,
			"method": "CASH",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 zero amount, got %d", st)
		}
	}

	today := time.Now().UTC().Format("2006-01-02")
	createID(t, ts.URL, "/api/v1/expenses", map[string]any{
		"date":        today,
		"description": "Guantes",
		"amount":      "15.00",
		"category":    "MEDICAL_SUPPLIES",
	})

	// 5) caja del día
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/reports/cash-flow?date="+today, staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 report, got %d body=%s", st, string(body))
		}
		var rep struct {
			IncomeByMethod     map[string]string `json:"income_by_method"`
			TotalIncome        string            `json:"total_income"`
			ExpensesByCategory map[string]string `json:"expenses_by_category"`
			TotalExpenses      string            `json:"total_expenses"`
			NetBalance         string            `json:"net_balance"`
		}
		_ = json.Unmarshal(body, &rep)
		if rep.IncomeByMethod["CASH"] != "20.00" || rep.IncomeByMethod["CARD"] != "25.00" {
			t.Fatalf("unexpected income by method: %+v", rep.IncomeByMethod)
		}
		if rep.TotalIncome != "45.00" || rep.TotalExpenses != "15.00" || rep.NetBalance != "30.00" {
			t.Fatalf("unexpected totals: %+v", rep)
		}
		if rep.ExpensesByCategory["MEDICAL_SUPPLIES"] != "15.00" {
			t.Fatalf("unexpected expenses: %+v", rep.ExpensesByCategory)
		}
	}
}

func TestHTTP_DeleteClientCascade(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	clientID := createID(t, ts.URL, "/api/v1/clients", map[string]any{"name": "Luis"})
	petID := createID(t, ts.URL, "/api/v1/pets", map[string]any{
		"client_id": clientID,
		"name":      "Milo",
		"species":   "dog",
		"sex":       "male",
	})
	productID := createID(t, ts.URL, "/api/v1/products", map[string]any{
		"name":       "Collar",
		"stock":      2,
		"unit_price": 10,
	})
	saleID := createID(t, ts.URL, "/api/v1/sales", map[string]any{
		"client_id": clientID,
		"pet_id":    petID,
		"lines":     []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	createID(t, ts.URL, "/api/v1/pets/"+petID+"/history", map[string]any{
		"type":        "CONSULTATION",
		"description": "Control anual",
	})

	st, body := doReq(t, ts.URL, "DELETE", "/api/v1/clients/"+clientID, staffID, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete client, got %d body=%s", st, string(body))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID, staffID, nil); st != http.StatusNotFound {
		t.Fatalf("expected pet gone, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID+"/history", staffID, nil); st != http.StatusNotFound {
		t.Fatalf("expected history of deleted pet to be 404, got %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/api/v1/sales/"+saleID, staffID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected sale kept, got %d", st)
	}
	var sale struct {
		ClientID *string `json:"client_id"`
		PetID    *string `json:"pet_id"`
	}
	_ = json.Unmarshal(body, &sale)
	if sale.ClientID != nil || sale.PetID != nil {
		t.Fatalf("expected sale references cleared, got client=%v pet=%v", sale.ClientID, sale.PetID)
	}
}

func assertSaleStatus(t *testing.T, baseURL, saleID, want string) {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/api/v1/sales/"+saleID, staffID, nil)
	if st != http.StatusOK {
		t.Fatalf("get sale: %d body=%s", st, string(body))
	}
	var s struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &s)
	if s.Status != want {
		t.Fatalf("expected status %s, got %s", want, s.Status)
	}
}

func createID(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, staffID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

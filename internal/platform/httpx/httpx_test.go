package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"
)

func TestWriteError_StatusMapping(t *testing.T) {
	op := multistep.New("sale.create")
	_ = op.Step(context.Background(), "insert_sale", func(context.Context) error { return nil })
	partial := op.Step(context.Background(), "decrement_stock:p1", func(context.Context) error { return errors.New("down") })

	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"not found", apperr.NotFound("sale", "s1"), http.StatusNotFound, "not_found"},
		{"validation", apperr.Invalid("amount must be > 0"), http.StatusBadRequest, "validation_error"},
		{"stock", fmt.Errorf("x: %w", &apperr.InsufficientStockError{ProductID: "p1", Requested: 2}), http.StatusConflict, "insufficient_stock"},
		{"partial", partial, http.StatusInternalServerError, "partial_failure"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Error)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2024-01-15")
	if err != nil || d == nil || d.Day() != 15 {
		t.Fatalf("unexpected: %v %v", d, err)
	}
	if d, err := ParseDate("date", ""); d != nil || err != nil {
		t.Fatalf("empty must be nil,nil")
	}
	if _, err := ParseDate("date", "15/01/2024"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSON_BodyLimit(t *testing.T) {
	prev := MaxBodyBytes
	MaxBodyBytes = 32
	defer func() { MaxBodyBytes = prev }()

	var dst struct {
		Name string `json:"name"`
	}

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Milo"}`))
	if err := DecodeJSON(small, &dst); err != nil || dst.Name != "Milo" {
		t.Fatalf("decode small body: %v %+v", err, dst)
	}

	big := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 100)+`"}`))
	if err := DecodeJSON(big, &dst); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for oversized body, got %v", err)
	}
}

package sales

import (
	"context"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/metrics"
	"vetadmin/internal/platform/money"
	"vetadmin/internal/platform/multistep"
	"vetadmin/internal/ports/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentInput struct {
	SaleID string
	Amount decimal.Decimal
	Method PaymentMethod
}

// RecordPayment registra un pago y, si con los pagos persistidos la venta
// queda cubierta (tolerancia money.Epsilon), la pasa de PENDING a PAID.
// No es idempotente: dos llamadas registran dos pagos. El sobrepago se acepta.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (Payment, error) {
	if !money.Round(in.Amount).IsPositive() {
		return Payment{}, apperr.Invalid("amount must be > 0")
	}
	if !in.Method.Valid() {
		return Payment{}, apperr.Invalid("unknown payment method " + string(in.Method))
	}

	sale, err := s.GetSale(ctx, in.SaleID)
	if err != nil {
		return Payment{}, err
	}
	if sale.Status == StatusCancelled {
		return Payment{}, apperr.Invalid("cancelled sales do not accept payments")
	}

	now := s.now()
	p := Payment{
		ID:        uuid.NewString(),
		SaleID:    sale.ID,
		Amount:    money.Round(in.Amount),
		Method:    in.Method,
		PaidAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	op := multistep.New("payment.record")
	if err := op.Step(ctx, "insert_payment", func(ctx context.Context) error {
		return s.payments.Create(ctx, p)
	}); err != nil {
		return Payment{}, err
	}

	metrics.PaymentsRecorded.WithLabelValues(string(p.Method)).Inc()
	_ = s.pub.Publish(ctx, notify.Event{
		Type:       notify.PaymentRecorded,
		EntityID:   p.ID,
		OccurredAt: p.PaidAt,
		Data: map[string]any{
			"sale_id": sale.ID,
			"amount":  money.Format(p.Amount),
			"method":  string(p.Method),
		},
	})

	if sale.Status != StatusPending {
		return p, nil
	}

	var paid decimal.Decimal
	if err := op.Step(ctx, "sum_payments", func(ctx context.Context) error {
		total, err := s.paidTotal(ctx, sale.ID)
		paid = total
		return err
	}); err != nil {
		return Payment{}, multistep.Observe(s.log, err)
	}
	if !money.Covers(paid, sale.Total) {
		return p, nil
	}

	if err := op.Step(ctx, "mark_paid", func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, sale.ID, StatusPaid, now)
	}); err != nil {
		return Payment{}, multistep.Observe(s.log, err)
	}

	metrics.SalesPaid.Inc()
	s.log.Info("sale paid", map[string]any{
		"sale_id": sale.ID,
		"total":   money.Format(sale.Total),
		"paid":    money.Format(paid),
	})
	_ = s.pub.Publish(ctx, notify.Event{
		Type:       notify.SalePaid,
		EntityID:   sale.ID,
		OccurredAt: now,
		Data:       map[string]any{"total": money.Format(sale.Total), "paid": money.Format(paid)},
	})

	return p, nil
}

// paidTotal relee los pagos persistidos de la venta.
func (s *Service) paidTotal(ctx context.Context, saleID string) (decimal.Decimal, error) {
	items, err := s.payments.ListBySale(ctx, saleID)
	if err != nil {
		return decimal.Zero, err
	}
	amounts := make([]decimal.Decimal, 0, len(items))
	for _, p := range items {
		amounts = append(amounts, p.Amount)
	}
	return money.Sum(amounts...), nil
}

func (s *Service) ListPayments(ctx context.Context, saleID string) ([]Payment, error) {
	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.payments.ListBySale(ctx, sale.ID)
}

// SaleBalance devuelve total, pagado y saldo pendiente de la venta.
func (s *Service) SaleBalance(ctx context.Context, saleID string) (Balance, error) {
	sale, err := s.GetSale(ctx, strings.TrimSpace(saleID))
	if err != nil {
		return Balance{}, err
	}
	paid, err := s.paidTotal(ctx, sale.ID)
	if err != nil {
		return Balance{}, err
	}

	due := sale.Total.Sub(paid)
	if due.IsNegative() || money.Covers(paid, sale.Total) {
		due = decimal.Zero
	}

	return Balance{
		SaleID: sale.ID,
		Status: sale.Status,
		Total:  sale.Total,
		Paid:   paid,
		Due:    money.Round(due),
	}, nil
}

// PaymentsBetween devuelve los pagos con from <= PaidAt < to. Lo consume el reporte de caja.
func (s *Service) PaymentsBetween(ctx context.Context, from, to time.Time) ([]Payment, error) {
	if !from.Before(to) {
		return nil, apperr.Invalid("empty payment range")
	}
	return s.payments.ListBetween(ctx, from, to)
}

package multistep

import (
	"context"
	"errors"
	"testing"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/logger"
)

type errorCounter struct {
	errors []map[string]any
}

func (l *errorCounter) With(map[string]any) logger.Logger     { return l }
func (l *errorCounter) Debug(string, map[string]any)          {}
func (l *errorCounter) Info(string, map[string]any)           {}
func (l *errorCounter) Warn(string, map[string]any)           {}
func (l *errorCounter) Error(_ string, fields map[string]any) { l.errors = append(l.errors, fields) }

func TestOperation_FirstStepFails_NoPartialFailure(t *testing.T) {
	op := New("sale.create")
	boom := errors.New("boom")

	err := op.Step(context.Background(), "insert_sale", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if errors.Is(err, apperr.ErrPartialFailure) {
		t.Fatalf("first-step failure must not be a partial failure")
	}
}

func TestOperation_LaterStepFails_ReportsCompleted(t *testing.T) {
	ctx := context.Background()
	op := New("sale.create")
	boom := errors.New("db down")

	if err := op.Step(ctx, "insert_sale", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := op.Step(ctx, "decrement_stock:p1", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := op.Step(ctx, "decrement_stock:p2", func(context.Context) error { return boom })

	if !errors.Is(err, apperr.ErrPartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause")
	}

	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected *PartialFailureError")
	}
	if pf.Failed != "decrement_stock:p2" || len(pf.Completed) != 2 {
		t.Fatalf("unexpected detail: %#v", pf)
	}
	if got := op.Completed(); len(got) != 2 || got[0] != "insert_sale" {
		t.Fatalf("unexpected completed list: %v", got)
	}
}

// recordDisease imita una operación de dominio que se usa sola o como paso de otra.
func recordDisease(ctx context.Context, log logger.Logger, cause error) error {
	op := New("pet_disease.record")
	if err := op.Step(ctx, "insert_pet_disease", func(context.Context) error { return nil }); err != nil {
		return err
	}
	if err := op.Step(ctx, "insert_history_event", func(context.Context) error { return cause }); err != nil {
		return Observe(log, err)
	}
	return nil
}

func TestOperation_NestedPartialFailure_IsFlattened(t *testing.T) {
	ctx := context.Background()
	log := &errorCounter{}
	boom := errors.New("db down")

	op := New("consultation.record")
	if err := op.Step(ctx, "insert_consultation_event", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := op.Step(ctx, "record_disease:d1", func(ctx context.Context) error {
		return recordDisease(ctx, log, boom)
	})
	err = Observe(log, err)

	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected *PartialFailureError, got %v", err)
	}
	if pf.Op != "consultation.record" {
		t.Fatalf("expected outer operation, got %q", pf.Op)
	}
	if pf.Failed != "record_disease:d1/insert_history_event" {
		t.Fatalf("unexpected failed step: %q", pf.Failed)
	}
	want := []string{"insert_consultation_event", "record_disease:d1/insert_pet_disease"}
	if len(pf.Completed) != len(want) || pf.Completed[0] != want[0] || pf.Completed[1] != want[1] {
		t.Fatalf("unexpected completed: %v", pf.Completed)
	}
	if pf.Err != boom {
		t.Fatalf("expected the root cause, got %v", pf.Err)
	}
	var innerPF *PartialFailureError
	if errors.As(pf.Err, &innerPF) {
		t.Fatalf("cause must not be another partial failure")
	}
	if len(log.errors) != 1 {
		t.Fatalf("expected a single partial failure log, got %d", len(log.errors))
	}
	if log.errors[0]["operation"] != "consultation.record" {
		t.Fatalf("unexpected logged operation: %v", log.errors[0])
	}
}

func TestOperation_NestedPartialFailureOnFirstStep_IsStillPartial(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	op := New("consultation.record")
	err := op.Step(ctx, "record_disease:d1", func(ctx context.Context) error {
		return recordDisease(ctx, nil, boom)
	})

	var pf *PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("inner writes were applied, expected partial failure, got %v", err)
	}
	if len(pf.Completed) != 1 || pf.Completed[0] != "record_disease:d1/insert_pet_disease" {
		t.Fatalf("unexpected completed: %v", pf.Completed)
	}
}

func TestObserve_StandaloneOperationLogsOnce(t *testing.T) {
	log := &errorCounter{}
	err := recordDisease(context.Background(), log, errors.New("db down"))

	if !errors.Is(err, apperr.ErrPartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if len(log.errors) != 1 || log.errors[0]["operation"] != "pet_disease.record" {
		t.Fatalf("unexpected logs: %v", log.errors)
	}
}

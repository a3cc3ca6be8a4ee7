package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/platform/logger"
	"vetadmin/internal/ports/notify"
)

func TestPublish_AfterCloseReturnsErrClosed(t *testing.T) {
	p := &Publisher{exchange: "vetadmin.topic", log: logger.Nop()}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	err := p.Publish(context.Background(), notify.Event{
		Type:       notify.SaleCreated,
		EntityID:   "sale-1",
		OccurredAt: time.Now(),
	})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	// Close es idempotente
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDial_InvalidURL(t *testing.T) {
	if _, err := Dial("not-a-url", "vetadmin.topic", logger.Nop()); err == nil {
		t.Fatalf("expected dial error")
	}
}

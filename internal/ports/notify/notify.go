// Package notify define el puerto de notificaciones de dominio (venta creada,
// pago registrado, venta saldada). Se publican después de que la escritura
// quedó persistida; un fallo al publicar nunca revierte la operación.
package notify

import (
	"context"
	"sync"
	"time"

	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/metrics"
)

type EventType string

const (
	SaleCreated     EventType = "sale.created"
	SalePaid        EventType = "sale.paid"
	SaleCancelled   EventType = "sale.cancelled"
	PaymentRecorded EventType = "payment.recorded"
)

type Event struct {
	Type       EventType      `json:"type"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

const (
	queueSize      = 256
	publishTimeout = 5 * time.Second
)

// FireAndForget envuelve p: Publish encola y vuelve enseguida; un worker
// publica en segundo plano. Los errores se loguean y se cuentan, nunca se
// devuelven. Con la cola llena el evento se descarta.
func FireAndForget(p Publisher, log logger.Logger) *Async {
	if p == nil {
		p = Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &Async{
		next:  p,
		log:   log,
		queue: make(chan queued, queueSize),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

type queued struct {
	ctx context.Context
	e   Event
}

type Async struct {
	next  Publisher
	log   logger.Logger
	queue chan queued
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func (a *Async) Publish(ctx context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.failed(e, "publisher closed")
		return nil
	}
	// el request puede terminar antes que la publicación; se conservan sus valores (trace, etc.)
	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), e: e}:
	default:
		a.failed(e, "queue full")
	}
	return nil
}

// Close deja de aceptar eventos y espera a que se publiquen los encolados.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Async) run() {
	defer close(a.done)
	for q := range a.queue {
		ctx, cancel := context.WithTimeout(q.ctx, publishTimeout)
		if err := a.next.Publish(ctx, q.e); err != nil {
			a.failed(q.e, err.Error())
		}
		cancel()
	}
}

func (a *Async) failed(e Event, reason string) {
	metrics.NotificationsFailed.WithLabelValues(string(e.Type)).Inc()
	a.log.Warn("notification publish failed", map[string]any{
		"type":      string(e.Type),
		"entity_id": e.EntityID,
		"error":     reason,
	})
}

// Recorder guarda los eventos publicados. Útil en tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Types() []EventType {
	out := make([]EventType, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

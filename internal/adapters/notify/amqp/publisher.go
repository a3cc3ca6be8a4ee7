// Package amqp publica las notificaciones de dominio en un exchange topic de
// RabbitMQ, con publisher confirms.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"vetadmin/internal/platform/logger"
	"vetadmin/internal/ports/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

const confirmTimeout = 5 * time.Second

var ErrClosed = errors.New("amqp publisher closed")

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      logger.Logger

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// Dial conecta, declara el exchange (topic, durable) y activa confirms.
func Dial(url, exchange string, log logger.Logger) (*Publisher, error) {
	c, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := c.Channel()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = c.Close()
		return nil, fmt.Errorf("amqp declare exchange %q: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = c.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}

	p := &Publisher{conn: c, channel: ch, exchange: exchange, log: log}

	closedCh := c.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err, ok := <-closedCh; ok && err != nil {
			p.markClosed()
			log.Warn("amqp connection closed", map[string]any{"error": err.Error()})
		}
	}()

	log.Info("amqp publisher ready", map[string]any{"exchange": exchange})
	return p, nil
}

// Publish usa el tipo de evento como routing key y espera el ACK del broker.
func (p *Publisher) Publish(ctx context.Context, e notify.Event) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("amqp marshal event: %w", err)
	}

	deferred, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		string(e.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.EntityID,
			Timestamp:    e.OccurredAt,
			Type:         string(e.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-deferred.Done():
		if !deferred.Acked() {
			return fmt.Errorf("amqp nack for %s %s", e.Type, e.EntityID)
		}
		return nil
	case <-time.After(confirmTimeout):
		return fmt.Errorf("amqp confirm timeout for %s %s", e.Type, e.EntityID)
	}
}

func (p *Publisher) markClosed() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.markClosed()
		if p.channel != nil {
			_ = p.channel.Close()
		}
		if p.conn != nil {
			_ = p.conn.Close()
		}
	})
	return nil
}

var _ notify.Publisher = (*Publisher)(nil)

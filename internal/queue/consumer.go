package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
)

// Handler processes one decoded booking.confirmed event. Errors wrapped
// with Permanent drop the message; any other error redelivers it.
type Handler interface {
	HandleBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivering the message cannot fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Consumer reads booking.confirmed until its context is cancelled,
// reconnecting with capped exponential backoff when the broker drops.
type Consumer struct {
	log     *slog.Logger
	url     string
	handler Handler
	// retryDelay is waited before a failed message is requeued.
	retryDelay time.Duration
}

func NewConsumer(log *slog.Logger, url string, h Handler) *Consumer {
	return &Consumer{log: log, url: url, handler: h, retryDelay: time.Second}
}

// Run blocks until ctx is done.
func (c *Consumer) Run(ctx context.Context) {
	const op = "queue.Consumer.Run"
	log := c.log.With(slog.String("op", op))

	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Warn("failed to dial broker", sl.Err(err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Warn("consume loop ended, reconnecting", sl.Err(err))
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", sl.Err(err))
	}
	if _, err := declare(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.process(ctx, d)
		}
	}
}

// process handles one delivery. Undecodable bodies and permanent handler
// errors are dropped. Other failures are requeued after retryDelay. A
// delivery interrupted by shutdown is left unacknowledged so the broker
// hands it out again once the channel closes.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log.Error("dropping undecodable booking.confirmed", sl.Err(err))
		_ = d.Nack(false, false)
		return
	}

	err := c.handler.HandleBookingConfirmed(ctx, ev)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case ctx.Err() != nil:
		c.log.Warn("booking.confirmed interrupted by shutdown", slog.String("booking_id", ev.BookingID))
	case IsPermanent(err):
		c.log.Error("dropping booking.confirmed", sl.Err(err), slog.String("booking_id", ev.BookingID))
		_ = d.Nack(false, false)
	default:
		c.log.Warn("booking.confirmed failed, requeueing", sl.Err(err), slog.String("booking_id", ev.BookingID))
		if !sleep(ctx, c.retryDelay) {
			return
		}
		_ = d.Nack(false, true)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

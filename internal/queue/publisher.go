package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to RabbitMQ, dialing once per publish.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishBookingConfirmed sends ev to the booking.confirmed queue as a
// persistent JSON message.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	const op = "queue.Publisher.PublishBookingConfirmed"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: channel: %w", op, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := declare(ch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: publish: %w", op, err)
	}
	return nil
}

// declare makes sure the durable queue exists.
func declare(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}

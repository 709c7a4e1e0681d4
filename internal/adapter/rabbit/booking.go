package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/metrics"
	"github.com/fleetora/fleetops/pkg/rabbit"
)

const (
	BookingExchange = "fleetops.bookings"

	serviceName = "fleetops-admin"
)

// BookingBroker publishes booking and payment events to the topic exchange
// consumed by the notification service and the realtime dashboard feed.
type BookingBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewBookingBroker(ctx context.Context, client *rabbit.RabbitMQ, log logger.Logger) (*BookingBroker, error) {
	b := &BookingBroker{
		client:   client,
		exchange: BookingExchange,
		l:        log,
	}

	if err := b.declareExchange(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BookingBroker) declareExchange(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_declare_exchange")

	if err := b.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, err)
	}

	err := b.client.Channel.ExchangeDeclare(
		b.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // auto-delete
		false,      // internal
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to declare exchange %q: %w", b.exchange, err))
	}

	return nil
}

func (b *BookingBroker) PublishBookingEvent(ctx context.Context, routingKey string, msg models.BookingEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_booking_event")
	ctx = wrap.WithBookingID(ctx, msg.BookingID.String())

	return b.publish(ctx, routingKey, msg.CorrelationID, msg)
}

func (b *BookingBroker) PublishPaymentEvent(ctx context.Context, routingKey string, msg models.PaymentEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_payment_event")
	ctx = wrap.WithBookingID(ctx, msg.BookingID.String())

	return b.publish(ctx, routingKey, msg.CorrelationID, msg)
}

func (b *BookingBroker) publish(ctx context.Context, routingKey, correlationID string, payload any) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		metrics.RecordRabbitMQPublish(serviceName, routingKey, err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(5, time.Second, func() error {
		return b.client.Channel.PublishWithContext(
			ctx,
			b.exchange, // exchange
			routingKey, // routing key
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: correlationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish(serviceName, routingKey, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}

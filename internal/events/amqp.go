package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPForwarder republishes dispatcher events to a durable topic exchange so
// downstream consumers (CRM sync, analytics) see the same stream the
// in-process handlers do.
type AMQPForwarder struct {
	conn     *amqp091.Connection
	exchange string
	logger   *zap.Logger
}

// NewAMQPForwarder dials the broker and declares the exchange.
func NewAMQPForwarder(url, exchange string, logger *zap.Logger) (*AMQPForwarder, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPForwarder{conn: conn, exchange: exchange, logger: logger}, nil
}

// RegisterHandlers subscribes the forwarder to every event type.
func (f *AMQPForwarder) RegisterHandlers(dispatcher Dispatcher) {
	for _, eventType := range []EventType{
		EventAppealCreated,
		EventAppealAssigned,
		EventAppealResolved,
		EventOperatorUpdated,
	} {
		dispatcher.Subscribe(eventType, f.Forward)
	}
}

// Forward publishes one event with the event type as routing key.
func (f *AMQPForwarder) Forward(ctx context.Context, event Event) error {
	ch, err := f.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	messageID := event.ID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	err = ch.PublishWithContext(
		ctx, f.exchange, string(event.Type), false, false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			MessageId:     messageID,
			CorrelationId: uuid.NewString(),
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	if err != nil {
		f.logger.Warn("amqp publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	f.logger.Debug("event forwarded",
		zap.String("event_type", string(event.Type)),
		zap.String("exchange", f.exchange))
	return nil
}

// Close closes the broker connection.
func (f *AMQPForwarder) Close() error {
	return f.conn.Close()
}

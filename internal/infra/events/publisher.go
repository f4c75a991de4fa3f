package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события в RabbitMQ. Соединение устанавливается на
// каждую публикацию: события редкие (решения по бронированиям), а
// отсутствие длинного соединения избавляет от логики переподключения.
// Ошибки публикации логируются и возвращаются, вызывающий волен их
// игнорировать - доставка событий не должна ронять основной запрос.
type Publisher struct {
	url    string
	logger Logger
}

// NewPublisher создает издателя событий
func NewPublisher(url string, logger Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// Publish публикует событие в указанную очередь. Очередь объявляется
// идемпотентно как durable, сообщения помечаются persistent.
func (p *Publisher) Publish(ctx context.Context, queue string, event ReservationEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Error("events: dial failed for queue=%s: %v", queue, err)
		return fmt.Errorf("events: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("events: channel open failed for queue=%s: %v", queue, err)
		return fmt.Errorf("events: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.logger.Error("events: queue declare failed for queue=%s: %v", queue, err)
		return fmt.Errorf("events: queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("events: marshal failed for queue=%s: %v", queue, err)
		return fmt.Errorf("events: marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		p.logger.Error("events: publish failed for queue=%s: %v", queue, err)
		return fmt.Errorf("events: publish: %w", err)
	}

	p.logger.Info("events: published %s for booking=%d", queue, event.BookingID)
	return nil
}

// NoopPublisher заглушка издателя, когда события выключены в конфигурации
type NoopPublisher struct {
	logger Logger
}

// NewNoopPublisher создает заглушку издателя
func NewNoopPublisher(logger Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish ничего не публикует
func (p *NoopPublisher) Publish(_ context.Context, queue string, event ReservationEvent) error {
	p.logger.Info("events: publishing disabled, dropped %s for booking=%d", queue, event.BookingID)
	return nil
}

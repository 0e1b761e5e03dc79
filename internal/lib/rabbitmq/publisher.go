package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/Kavinnandha/patient-care/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WelcomePublisher публикует события регистрации в очередь приветственных писем.
type WelcomePublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewWelcomePublisher создает новый экземпляр WelcomePublisher.
func NewWelcomePublisher(ch *amqp.Channel, exchange string) *WelcomePublisher {
	return &WelcomePublisher{ch: ch, exchange: exchange}
}

// PublishWelcome отправляет событие о новой регистрации воркеру рассылки.
func (p *WelcomePublisher) PublishWelcome(event models.WelcomeEvent) error {
	const op = "rabbitmq.PublishWelcome"
	if err := PublishMessage(p.ch, p.exchange, WelcomeRoutingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Package rabbitmq содержит подключение к RabbitMQ, публикацию и потребление
// сообщений очередей уведомлений.
package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для привязки к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	// WelcomeQueue очередь приветственных писем новым пациентам
	WelcomeQueue = "notification.welcome"
	// WelcomeRoutingKey ключ маршрутизации приветственных писем
	WelcomeRoutingKey = "welcome"
)

// GetNotificationQueues возвращает список очередей уведомлений сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WelcomeQueue, RoutingKey: WelcomeRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}

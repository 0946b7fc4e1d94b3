package worker

import (
	"github.com/spec-kit/appeal-router/internal/events"
	"github.com/spec-kit/appeal-router/internal/service"
)

// StartNotificationWorker registers notification handlers and the optional
// AMQP forwarder on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, forwarder *events.AMQPForwarder, dispatcher events.Dispatcher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if forwarder != nil && dispatcher != nil {
		forwarder.RegisterHandlers(dispatcher)
	}
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/appeal-router/internal/config"
	"github.com/spec-kit/appeal-router/internal/events"
)

// NotificationService emits notifications for domain events: structured log
// lines always, webhook delivery when a URL is configured.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	webhook    *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	webhook := resty.New().
		SetTimeout(cfg.WebhookTimeout()).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		webhook:    webhook,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppealCreated, n.handleAppealCreated)
	n.dispatcher.Subscribe(events.EventAppealAssigned, n.handleAppealAssigned)
	n.dispatcher.Subscribe(events.EventAppealResolved, n.handleAppealResolved)
	n.dispatcher.Subscribe(events.EventOperatorUpdated, n.handleOperatorUpdated)
}

func (n *NotificationService) handleAppealCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("AppealCreated", zap.String("appeal_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotification(ctx, event)
	return nil
}

func (n *NotificationService) handleAppealAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("AppealAssigned", zap.String("appeal_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotification(ctx, event)
	return nil
}

func (n *NotificationService) handleAppealResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("AppealResolved", zap.String("appeal_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotification(ctx, event)
	return nil
}

func (n *NotificationService) handleOperatorUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("OperatorUpdated", zap.String("operator_id", event.EntityID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotification(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetBody(event).
		Post(n.cfg.WebhookURL)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("webhook delivery rejected",
			zap.String("event_type", string(event.Type)),
			zap.Int("status", resp.StatusCode()))
	}
}

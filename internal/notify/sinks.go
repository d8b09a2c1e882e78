package notify

import (
	"context"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/websocket"
)

// Publisher is the part of the Kafka producer used for notifications
type Publisher interface {
	PublishNotification(ctx context.Context, n model.Notification) error
}

// KafkaNotifier forwards notifications to the Kafka producer
type KafkaNotifier struct {
	publisher Publisher
}

// NewKafkaNotifier creates a Kafka notifier
func NewKafkaNotifier(publisher Publisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

// Notify publishes n
func (k *KafkaNotifier) Notify(ctx context.Context, n model.Notification) error {
	return k.publisher.PublishNotification(ctx, n)
}

// ChannelPublisher is the part of the websocket hub used for notifications
type ChannelPublisher interface {
	PublishToChannel(channel string, msgType websocket.MessageType, data interface{})
}

// HubNotifier pushes notifications to the session's websocket channel
type HubNotifier struct {
	hub ChannelPublisher
}

// NewHubNotifier creates a websocket notifier
func NewHubNotifier(hub ChannelPublisher) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// Notify pushes n to subscribers of the session's notification channel
func (h *HubNotifier) Notify(_ context.Context, n model.Notification) error {
	h.hub.PublishToChannel(websocket.NotificationsChannel(n.SessionID), websocket.MsgTypeNotification, n)
	return nil
}

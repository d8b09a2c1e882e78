package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// Topics used by the dashboard service
const (
	TopicNotifications = "dashboard-notifications"
	TopicAudit         = "dashboard-audit"
)

const eventTypeHeader = "event_type"

// AuditEvent records one state-changing request made by a dashboard session
type AuditEvent struct {
	SessionID string    `json:"session_id"`
	ClientIP  string    `json:"client_ip"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	UserAgent string    `json:"user_agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes dashboard events. Each topic gets its own writer and
// events are keyed by session, so one session's events stay on one partition.
type Producer struct {
	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
	logger    *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, clientID string, logger *zap.Logger) *Producer {
	transport := &kafka.Transport{ClientID: clientID}
	return &Producer{
		writers: make(map[string]messageWriter),
		newWriter: func(topic string) messageWriter {
			return &kafka.Writer{
				Addr:                   kafka.TCP(brokers...),
				Topic:                  topic,
				Balancer:               &kafka.Hash{},
				BatchSize:              100,
				BatchTimeout:           10 * time.Millisecond,
				RequiredAcks:           kafka.RequireOne,
				AllowAutoTopicCreation: true,
				Transport:              transport,
			}
		},
		logger: logger,
	}
}

// PublishNotification publishes an operation outcome to the notifications topic
func (p *Producer) PublishNotification(ctx context.Context, n model.Notification) error {
	return p.publish(ctx, TopicNotifications, n.SessionID, "notification."+n.Type, n)
}

// PublishAudit publishes a request record to the audit topic
func (p *Producer) PublishAudit(ctx context.Context, event AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.publish(ctx, TopicAudit, event.SessionID, "audit", event)
}

func (p *Producer) publish(ctx context.Context, topic, key, eventType string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: []kafka.Header{{Key: eventTypeHeader, Value: []byte(eventType)}},
		Time:    time.Now(),
	}
	if err := p.writer(topic).WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("topic", topic),
			zap.String("session_id", key),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Event published",
		zap.String("topic", topic),
		zap.String("event_type", eventType),
		zap.String("session_id", key))
	return nil
}

func (p *Producer) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// Close flushes and closes every topic writer
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
	p.writers = make(map[string]messageWriter)
	return nil
}

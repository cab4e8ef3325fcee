// Package events publishes committed speech changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
	"github.com/kailas-cloud/speeches/internal/mapper"
	"github.com/kailas-cloud/speeches/internal/metrics"
)

// Type names a change event.
type Type string

// Change event types.
const (
	TypeCreated Type = "speech.created"
	TypeUpdated Type = "speech.updated"
	TypeDeleted Type = "speech.deleted"
)

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "speeches.events"

// Event is the JSON value of a change message. Speech is nil for deletions.
type Event struct {
	Type       Type              `json:"type"`
	ID         string            `json:"id"`
	Speech     *mapper.SpeechDTO `json:"speech"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Config holds the broker connection settings.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type dialFunc func(ctx context.Context, network, address string) (*kafka.Conn, error)

// Publisher implements usecase/speech.Notifier over a kafka.Writer.
type Publisher struct {
	writer  messageWriter
	brokers []string
	dial    dialFunc
	now     func() time.Time
	logger  *zap.Logger
}

// NewPublisher creates a publisher writing to cfg.Topic.
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           timeout,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, cfg.Brokers, logger), nil
}

func newPublisher(w messageWriter, brokers []string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer:  w,
		brokers: brokers,
		dial:    kafka.DialContext,
		now:     time.Now,
		logger:  logger,
	}
}

// SpeechCreated publishes a speech.created event.
func (p *Publisher) SpeechCreated(ctx context.Context, s domspeech.Speech) error {
	dto := mapper.ToExternal(s)
	return p.publish(ctx, Event{Type: TypeCreated, ID: s.ID(), Speech: &dto})
}

// SpeechUpdated publishes a speech.updated event.
func (p *Publisher) SpeechUpdated(ctx context.Context, s domspeech.Speech) error {
	dto := mapper.ToExternal(s)
	return p.publish(ctx, Event{Type: TypeUpdated, ID: s.ID(), Speech: &dto})
}

// SpeechDeleted publishes a speech.deleted event.
func (p *Publisher) SpeechDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, Event{Type: TypeDeleted, ID: id})
}

func (p *Publisher) publish(ctx context.Context, e Event) error {
	e.OccurredAt = p.now().UTC()
	value, err := json.Marshal(e)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(e.Type), "error").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(e.Type), "error").Inc()
		return fmt.Errorf("publish %s %s: %w", e.Type, e.ID, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(e.Type), "ok").Inc()
	p.logger.Debug("event published", zap.String("type", string(e.Type)), zap.String("id", e.ID))
	return nil
}

// HealthCheck dials the first broker.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	conn, err := p.dial(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", p.brokers[0], err)
	}
	return conn.Close()
}

// Close flushes pending writes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

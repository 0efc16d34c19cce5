// Package events publishes transcript events to Kafka as the durable
// side-channel of the in-memory session log.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"live-translation-relay/internal/models"
	"live-translation-relay/internal/observability/metrics"
)

// PartialEvent is the payload published for a partial recognition result.
type PartialEvent struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	Timestamp int64  `json:"timestamp"`
}

// FinalEvent is the payload published for a translated final result.
type FinalEvent struct {
	EventType          string `json:"eventType"`
	SessionID          string `json:"sessionId"`
	OriginalText       string `json:"originalText"`
	OriginalLanguage   string `json:"originalLanguage"`
	TranslatedText     string `json:"translatedText"`
	TranslatedLanguage string `json:"translatedLanguage"`
	Timestamp          int64  `json:"timestamp"`
}

// NewPartialEvent builds the partial payload for a session.
func NewPartialEvent(sessionID, text, language string) PartialEvent {
	return PartialEvent{
		EventType: "session.transcript.partial",
		SessionID: sessionID,
		Text:      text,
		Language:  language,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewFinalEvent builds the final payload from a committed transcript.
func NewFinalEvent(t models.Transcript) FinalEvent {
	return FinalEvent{
		EventType:          "session.transcript.final",
		SessionID:          t.SessionID,
		OriginalText:       t.OriginalText,
		OriginalLanguage:   t.OriginalLanguage,
		TranslatedText:     t.TranslatedText,
		TranslatedLanguage: t.TranslatedLanguage,
		Timestamp:          t.Timestamp.UnixMilli(),
	}
}

// Publisher publishes transcript events to separate Kafka topics.
// When Kafka is disabled it degrades to log-only mode.
type Publisher struct {
	writerPartial *kafka.Writer
	writerFinal   *kafka.Writer
	principal     string
	topicPartial  string
	topicFinal    string
	enabled       bool
	metrics       *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicPartial string
	TopicFinal   string
	Principal    string
	Enabled      bool
}

// New creates a Kafka event publisher with separate topics for partial and
// final transcripts.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:    cfg.Principal,
			topicPartial: cfg.TopicPartial,
			topicFinal:   cfg.TopicFinal,
			enabled:      false,
			metrics:      m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerPartial := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicPartial,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerFinal := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicFinal,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicPartial", cfg.TopicPartial).
		Str("topicFinal", cfg.TopicFinal).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerPartial: writerPartial,
		writerFinal:   writerFinal,
		principal:     cfg.Principal,
		topicPartial:  cfg.TopicPartial,
		topicFinal:    cfg.TopicFinal,
		enabled:       true,
		metrics:       m,
	}
}

// PublishPartial publishes a partial transcript event, keyed by session id.
func (p *Publisher) PublishPartial(ctx context.Context, sessionID string, event PartialEvent) error {
	return p.publish(ctx, p.writerPartial, p.topicPartial, "partial", sessionID, event)
}

// PublishFinal publishes a final transcript event, keyed by session id.
func (p *Publisher) PublishFinal(ctx context.Context, sessionID string, event FinalEvent) error {
	return p.publish(ctx, p.writerFinal, p.topicFinal, "final", sessionID, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerPartial != nil {
		if e := p.writerPartial.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing partial writer")
			err = e
		}
	}
	if p.writerFinal != nil {
		if e := p.writerFinal.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing final writer")
			err = e
		}
	}
	return err
}

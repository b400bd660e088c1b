// Package events publishes classified intents to Kafka.
package events

import (
	"context"
	"time"

	contextPkg "BrailleVoice/pkg/context"
	"BrailleVoice/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultTopic = "voice.intents"

type IPublisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

type Publisher struct {
	writer  messageWriter
	topic   string
	enabled bool
	log     *logrus.Logger
	metrics *metrics.Metrics
}

// New returns a publisher writing to cfg.Topic. Without brokers, or when
// disabled, events are only logged.
func New(cfg *Config, log *logrus.Logger, m *metrics.Metrics) *Publisher {
	if m == nil {
		m = metrics.DefaultMetrics
	}

	if cfg == nil {
		log.Info("Kafka disabled (nil config), using log-only mode")
		return &Publisher{topic: DefaultTopic, log: log, metrics: m}
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("Kafka disabled, using log-only mode")
		return &Publisher{topic: topic, log: log, metrics: m}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   topic,
	}).Info("Kafka publisher initialized")

	return &Publisher{
		writer:  writer,
		topic:   topic,
		enabled: true,
		log:     log,
		metrics: m,
	}
}

// Publish writes event keyed by key, normally the session id so that one
// session's intents stay ordered on a partition.
func (p *Publisher) Publish(ctx context.Context, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"topic": p.topic,
			"error": err.Error(),
		}).Error("Failed to marshal event")
		return err
	}

	p.log.WithFields(logrus.Fields{
		"topic":   p.topic,
		"key":     key,
		"payload": string(payload),
	}).Debug("Publishing event")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordPublish(p.topic, nil, time.Since(start).Seconds())
		return nil
	}

	requestID := contextPkg.GetRequestID(ctx)
	headers := []kafka.Header{
		{Key: "eventType", Value: []byte("intent")},
		{Key: "requestId", Value: []byte(requestID)},
	}
	if sessionID := contextPkg.GetSessionID(ctx); sessionID != "" {
		headers = append(headers, kafka.Header{Key: "sessionId", Value: []byte(sessionID)})
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"topic":      p.topic,
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to write to Kafka")
		p.metrics.RecordPublish(p.topic, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordPublish(p.topic, nil, time.Since(start).Seconds())
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		p.log.WithField("error", err.Error()).Error("Error closing kafka writer")
		return err
	}
	return nil
}

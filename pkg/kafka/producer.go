package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const defaultBatchTimeout = 10 * time.Millisecond

// Config holds Kafka producer parameters.
type Config struct {
	Brokers []string
	// BatchTimeout bounds how long a partial batch waits before flushing.
	BatchTimeout time.Duration
	// TLS enables TLS for broker connections.
	TLS bool
}

// Message is a single record to publish.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes messages through one kafka-go writer per topic.
type Producer struct {
	mu      sync.Mutex
	writers map[string]*kafkago.Writer
	cfg     Config
}

// NewProducer creates a Producer. Writers are created lazily on first publish.
func NewProducer(cfg Config) *Producer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = defaultBatchTimeout
	}
	return &Producer{
		writers: make(map[string]*kafkago.Writer),
		cfg:     cfg,
	}
}

// Publish writes messages to topic and waits for all in-sync replicas.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		records = append(records, toRecord(msg))
	}

	if err := p.writer(topic).WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes every writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: p.cfg.BatchTimeout,
		RequiredAcks: kafkago.RequireAll,
	}
	if p.cfg.TLS {
		w.Transport = &kafkago.Transport{TLS: &tls.Config{MinVersion: tls.VersionTLS12}}
	}
	p.writers[topic] = w
	return w
}

func toRecord(msg Message) kafkago.Message {
	record := kafkago.Message{Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return record
}

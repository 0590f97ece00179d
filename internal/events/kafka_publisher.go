package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/segmentio/kafka-go"
)

const (
	publishQueueSize = 1000
	workerCount      = 4
	writeTimeout     = 5 * time.Second
	writeAttempts    = 3
)

// messageWriter is the part of kafka.Writer the publisher depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher drains a buffered queue into a Kafka topic through a
// small worker pool. Each message is attempted a few times before being
// dropped with a log line; combined with the consumers' idempotence on
// entity id this gives at-least-once delivery.
type KafkaPublisher struct {
	writer       messageWriter
	queue        chan Event
	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	})
}

func newKafkaPublisher(writer messageWriter) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:       writer,
		queue:        make(chan Event, publishQueueSize),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Publish enqueues the event without blocking the mutating request. A
// full queue is reported to the caller, who logs and moves on — the
// lease/policy mutation has already committed.
func (p *KafkaPublisher) Publish(_ context.Context, evt Event) error {
	select {
	case p.queue <- evt:
		return nil
	default:
		return fmt.Errorf("event queue full, %s event for %s dropped", evt.Type, evt.Key)
	}
}

func (p *KafkaPublisher) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case evt := <-p.queue:
			if err := p.send(evt); err != nil {
				utils.Logger.WithError(err).Errorf("kafka worker %d: giving up on %s event for %s", id, evt.Type, evt.Key)
			}
		case <-p.shutdownChan:
			return
		}
	}
}

func (p *KafkaPublisher) send(evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		lastErr = p.writer.WriteMessages(ctx, msg)
		cancel()
		if lastErr == nil {
			return nil
		}
		utils.Logger.WithError(lastErr).Warnf("kafka write attempt %d/%d failed for %s", attempt, writeAttempts, evt.Key)
	}
	return lastErr
}

// Close stops the workers, flushes whatever is still queued, and closes
// the writer. Publish must not be called after Close.
func (p *KafkaPublisher) Close() error {
	close(p.shutdownChan)
	p.wg.Wait()
	close(p.queue)
	for evt := range p.queue {
		if err := p.send(evt); err != nil {
			utils.Logger.WithError(err).Errorf("kafka shutdown: giving up on %s event for %s", evt.Type, evt.Key)
		}
	}
	return p.writer.Close()
}

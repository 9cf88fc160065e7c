// Package mq publishes ledger events to Kafka.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
)

// EventEntryPosted is the type header of every message.
const EventEntryPosted = "journal.entry.posted"

// EntryPostedEvent is the message value.
type EntryPostedEvent struct {
	Type       string              `json:"type"`
	OccurredAt time.Time           `json:"occurredAt"`
	Entry      domain.JournalEntry `json:"entry"`
}

// KafkaEntryPublisher implements portssvc.EntryPublisher over a sarama SyncProducer.
type KafkaEntryPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

var _ portssvc.EntryPublisher = (*KafkaEntryPublisher)(nil)

// NewProducerConfig waits for all in-sync replicas and retries three times.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Version = sarama.V2_1_0_0
	return cfg
}

// NewKafkaEntryPublisher dials the brokers.
func NewKafkaEntryPublisher(brokers []string, topic string) (*KafkaEntryPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaEntryPublisherFromProducer(producer, topic), nil
}

// NewKafkaEntryPublisherFromProducer wraps an existing producer.
func NewKafkaEntryPublisherFromProducer(producer sarama.SyncProducer, topic string) *KafkaEntryPublisher {
	return &KafkaEntryPublisher{producer: producer, topic: topic}
}

// PublishEntryPosted sends the entry keyed by its id, so all messages for one
// entry land on the same partition.
func (p *KafkaEntryPublisher) PublishEntryPosted(ctx context.Context, entry domain.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(EntryPostedEvent{Type: EventEntryPosted, OccurredAt: time.Now().UTC(), Entry: entry})
	if err != nil {
		return fmt.Errorf("failed to encode entry %s: %w", entry.EntryID, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(entry.EntryID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(EventEntryPosted)},
		},
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish entry %s to %s: %w", entry.EntryID, p.topic, err)
	}
	return nil
}

// Close closes the producer.
func (p *KafkaEntryPublisher) Close() error {
	return p.producer.Close()
}

package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Username   string
	Password   string
	Mechanism  string
	TLSEnabled bool
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	transport := &kafka.Transport{}
	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{}
	}
	if cfg.Username != "" {
		var mechanism sasl.Mechanism
		switch cfg.Mechanism {
		case "", "PLAIN":
			mechanism = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		case "SCRAM-SHA-256":
			m, err := scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
			if err != nil {
				return nil, fmt.Errorf("building scram mechanism: %w", err)
			}
			mechanism = m
		case "SCRAM-SHA-512":
			m, err := scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
			if err != nil {
				return nil, fmt.Errorf("building scram mechanism: %w", err)
			}
			mechanism = m
		default:
			return nil, fmt.Errorf("unknown sasl mechanism: %s", cfg.Mechanism)
		}
		transport.SASL = mechanism
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:      kafka.TCP(cfg.Brokers...),
			Topic:     cfg.Topic,
			Balancer:  &kafka.LeastBytes{},
			Transport: transport,
		},
	}, nil
}

func (k *KafkaPublisher) PublishReversal(event ReversalEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.ReversalRequestID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Publish(msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

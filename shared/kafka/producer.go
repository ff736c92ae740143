package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"cronos/types"
)

// Producer publishes import jobs to the import topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

// NewProducer dials the brokers with a synchronous, all-replica-ack producer.
func NewProducer(config ProducerConfig) (*Producer, error) {
	saramaConfig := newSaramaConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewProducerWith(p, config.Topic, config.Logger), nil
}

// NewProducerWith wraps an existing sarama producer.
func NewProducerWith(p sarama.SyncProducer, topic string, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: p,
		topic:    topic,
		logger:   logger.With().Str("component", "kafka-producer").Str("topic", topic).Logger(),
	}
}

// PublishImportJob sends job keyed by its id.
func (p *Producer) PublishImportJob(ctx context.Context, job types.ImportJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal import job: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.ID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish import job %s: %w", job.ID, err)
	}

	p.logger.Info().
		Str("job_id", job.ID).
		Str("url", job.URL).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("import job queued")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"deluxetours/internal/shared/config"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and delivers emails
type Consumer interface {
	Start(ctx context.Context) error
	Close() error
}

type kafkaConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	sender EmailSender
}

// NewKafkaConsumer creates a consumer group member for the notification
// topic.
func NewKafkaConsumer(cfg config.KafkaConfig, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:  group,
		topics: []string{cfg.NotificationTopic},
		sender: sender,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			log.Printf("notification consumer error: %v", err)
		}
	}()

	go func() {
		handler := &groupHandler{sender: c.sender}
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.group.Consume(ctx, c.topics, handler); err != nil {
					log.Printf("notification consume error: %v", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()

	return nil
}

func (c *kafkaConsumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	sender EmailSender
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		notification, err := FromJSON(message.Value)
		if err != nil {
			log.Printf("notification consumer: skipping malformed message at offset %d: %v", message.Offset, err)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.sender.Send(session.Context(), notification); err != nil {
			// Delivery failures are logged and the offset committed;
			// a stuck message must not block the partition.
			log.Printf("notification consumer: failed to send %s to %s: %v",
				notification.Type, notification.RecipientEmail, err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}

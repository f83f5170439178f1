package notifications

import (
	"context"
	"log"

	"deluxetours/internal/bookings"
	"deluxetours/internal/shared/config"
)

// Service publishes booking lifecycle notifications. When Kafka is
// disabled the notifications are logged and dropped, keeping local
// development free of broker dependencies.
type Service struct {
	producer Producer
	consumer Consumer
	enabled  bool
}

// NewService wires the producer and consumer when Kafka is enabled.
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		return &Service{enabled: false}, nil
	}

	producer, err := NewKafkaProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	sender := NewSMTPSender(cfg.Email)
	consumer, err := NewKafkaConsumer(cfg.Kafka, sender)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &Service{
		producer: producer,
		consumer: consumer,
		enabled:  true,
	}, nil
}

// Disabled returns a no-op service for running without a broker.
func Disabled() *Service {
	return &Service{enabled: false}
}

// Start launches the consumer workers.
func (s *Service) Start(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	return s.consumer.Start(ctx)
}

// Close shuts down the Kafka clients.
func (s *Service) Close() error {
	if !s.enabled {
		return nil
	}
	if err := s.producer.Close(); err != nil {
		return err
	}
	return s.consumer.Close()
}

// BookingConfirmed publishes a confirmation notification. Failures are
// logged; notification delivery never fails the calling flow.
func (s *Service) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	n := NewNotification(TypeBookingConfirmed, booking.Contact.Email, booking.Contact.Name)
	n.BookingReference = booking.Reference
	n.BookingDate = booking.BookingDate.Format("2006-01-02")
	n.TotalPrice = booking.TotalPrice
	s.publish(ctx, n)
}

// PaymentReceived publishes a payment receipt notification.
func (s *Service) PaymentReceived(ctx context.Context, booking *bookings.Booking) {
	n := NewNotification(TypePaymentReceived, booking.Contact.Email, booking.Contact.Name)
	n.BookingReference = booking.Reference
	n.BookingDate = booking.BookingDate.Format("2006-01-02")
	n.TotalPrice = booking.TotalPrice
	n.ReceiptNumber = booking.Payment.ReceiptNumber
	s.publish(ctx, n)
}

// BookingCancelled publishes a cancellation notification.
func (s *Service) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	n := NewNotification(TypeBookingCancelled, booking.Contact.Email, booking.Contact.Name)
	n.BookingReference = booking.Reference
	n.BookingDate = booking.BookingDate.Format("2006-01-02")
	s.publish(ctx, n)
}

func (s *Service) publish(ctx context.Context, n *Notification) {
	if !s.enabled {
		log.Printf("notifications disabled: dropping %s for %s", n.Type, n.RecipientEmail)
		return
	}
	if err := s.producer.Publish(ctx, n); err != nil {
		log.Printf("failed to publish %s notification for %s: %v", n.Type, n.RecipientEmail, err)
	}
}

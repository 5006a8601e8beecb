package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sortmyscene/internal/auth"
	"sortmyscene/pkg/logger"
)

// Service emits application notifications. Publishing is best-effort: a
// broker failure is logged and never fails the request that triggered it.
type Service struct {
	producer Producer
	logger   *logger.Logger
}

func NewService(producer Producer) *Service {
	return &Service{
		producer: producer,
		logger:   logger.GetDefault(),
	}
}

// UserSignedUp publishes the welcome-email intent for a new account.
func (s *Service) UserSignedUp(ctx context.Context, user *auth.User) {
	s.publish(ctx, &Notification{
		ID:        uuid.New().String(),
		Type:      TypeUserSignedUp,
		Recipient: user.ID,
		Payload: map[string]interface{}{
			"email":     user.Email,
			"full_name": user.FullName,
		},
		CreatedAt: time.Now().UTC(),
	})
}

// CheckoutReachedPayment records that a checkout arrived at the payment step.
func (s *Service) CheckoutReachedPayment(ctx context.Context, checkoutID, eventID string, total int) {
	s.publish(ctx, &Notification{
		ID:        uuid.New().String(),
		Type:      TypeCheckoutReachedPayment,
		Recipient: checkoutID,
		Payload: map[string]interface{}{
			"checkout_id": checkoutID,
			"event_id":    eventID,
			"total":       total,
		},
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) publish(ctx context.Context, notification *Notification) {
	if err := s.producer.Publish(ctx, notification); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to publish notification", err, map[string]interface{}{
			"type":      notification.Type,
			"recipient": notification.Recipient,
		})
	}
}

// Close releases the underlying producer.
func (s *Service) Close() error {
	return s.producer.Close()
}

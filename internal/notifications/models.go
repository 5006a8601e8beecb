package notifications

import (
	"time"
)

// Notification types emitted by this application.
const (
	TypeUserSignedUp           = "user.signed_up"
	TypeCheckoutReachedPayment = "checkout.reached_payment"
)

// Notification is the wire format published to the broker. Payload carries
// type-specific fields (event id, total, display name).
type Notification struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// NotificationType identifies the lifecycle event behind a notification.
type NotificationType string

const (
	NotificationBookingSubmitted NotificationType = "booking_submitted"
	NotificationBookingAccepted  NotificationType = "booking_accepted"
	NotificationBookingDeclined  NotificationType = "booking_declined"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingCompleted NotificationType = "booking_completed"
)

// Notification is an in-app notification row owned by its recipient.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Link      *string          `db:"link" json:"link,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// NotificationEvent is the contract lifecycle transitions publish. External
// delivery (email, WhatsApp) consumes the same event asynchronously;
// delivery failure never affects booking state.
type NotificationEvent struct {
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipient_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	Payload     types.JSONText   `json:"payload,omitempty"`
}

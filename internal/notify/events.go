// Package notify publishes best-effort streak events to Kafka. Delivery
// failures are reported to the caller for logging only and never abort the
// engine operation that triggered them.
package notify

import "time"

// Event type header values consumed by the streak tracker.
const (
	EventTypeJoined  = "streak.activity_joined"
	EventTypeLeft    = "streak.activity_left"
	EventTypeDeleted = "streak.activity_deleted"
)

// ActivityJoined is emitted when a user joins a group-linked activity.
type ActivityJoined struct {
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ActivityLeft is emitted when a user quits a group-linked activity.
type ActivityLeft struct {
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ActivityDeleted is emitted when a future group-linked activity is deleted.
type ActivityDeleted struct {
	GroupID     string    `json:"group_id"`
	UserIDs     []string  `json:"user_ids"`
	ScheduledAt time.Time `json:"scheduled_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

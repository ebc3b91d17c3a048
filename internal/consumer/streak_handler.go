package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/gather/internal/notify"
)

// StreakStore persists the per-group streak projection.
type StreakStore interface {
	RecordJoin(ctx context.Context, groupID, userID string, occurredAt time.Time) error
	RecordLeave(ctx context.Context, groupID, userID string) error
	RecordDeleted(ctx context.Context, groupID string, userIDs []string) error
}

// StreakHandler applies streak events to the projection store.
type StreakHandler struct {
	store StreakStore
}

// NewStreakHandler constructs a StreakHandler.
func NewStreakHandler(store StreakStore) *StreakHandler {
	return &StreakHandler{store: store}
}

// Handle dispatches a decoded message by event type. Unknown event types are
// an error so they surface in the handler error counter instead of being
// silently dropped.
func (h *StreakHandler) Handle(ctx context.Context, msg Message) error {
	switch msg.EventType {
	case notify.EventTypeJoined:
		var payload notify.ActivityJoined
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.store.RecordJoin(ctx, payload.GroupID, payload.UserID, payload.OccurredAt)
	case notify.EventTypeLeft:
		var payload notify.ActivityLeft
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.store.RecordLeave(ctx, payload.GroupID, payload.UserID)
	case notify.EventTypeDeleted:
		var payload notify.ActivityDeleted
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.store.RecordDeleted(ctx, payload.GroupID, payload.UserIDs)
	default:
		return fmt.Errorf("unknown event type %q", msg.EventType)
	}
}

package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ActivityStore captures persistence operations for events and series.
// Implementations assign ids through NewID.
type ActivityStore interface {
	// Get returns the activity or (nil, ErrNotFound).
	Get(ctx context.Context, id string) (*Activity, error)
	Create(ctx context.Context, activity Activity) error
	Update(ctx context.Context, id string, activity Activity) error
	Delete(ctx context.Context, id string) error
	NewID() string
}

// ProfileStore reads and writes per-user participation counters.
type ProfileStore interface {
	// Get returns (nil, nil) when no profile exists yet.
	Get(ctx context.Context, userID string) (*Profile, error)
	// GetMany loads the requested profiles in request order. Users that were
	// never referenced yield a zero-count profile, matching Get's lazy
	// contract; errors are reserved for store failures, and a short slice is
	// treated as one by callers.
	GetMany(ctx context.Context, userIDs []string) ([]Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}

// GroupStore reads groups and appends to their linked-activity lists.
type GroupStore interface {
	// Get returns the group or (nil, ErrNotFound).
	Get(ctx context.Context, id string) (*Group, error)
	Update(ctx context.Context, id string, group Group) error
}

// StreakNotifier is a best-effort side channel feeding the group streak
// tracker. Errors are logged by callers and never change the outcome of the
// enclosing operation.
type StreakNotifier interface {
	ActivityJoined(ctx context.Context, groupID, userID string, scheduledAt time.Time) error
	ActivityLeft(ctx context.Context, groupID, userID string, scheduledAt time.Time) error
	ActivityDeleted(ctx context.Context, groupID string, userIDs []string, scheduledAt time.Time) error
}

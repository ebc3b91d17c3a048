// Package domain defines the shared-activity data model and the capability
// store contracts consumed by the engines.
package domain

import "time"

// Kind distinguishes the two participant-bearing entities.
type Kind string

const (
	// KindEvent is a single scheduled activity.
	KindEvent Kind = "event"
	// KindSerie is a recurring activity owning an ordered list of child events.
	KindSerie Kind = "serie"
)

// Visibility controls who can discover an activity.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Activity is the canonical record for both events and series. The owner is
// always a participant and can never be removed; GroupID is immutable once
// set at creation.
type Activity struct {
	ID              string
	Kind            Kind
	OwnerID         string
	Title           string
	ScheduledAt     time.Time
	MaxParticipants int
	Participants    []string
	GroupID         string
	Visibility      Visibility
	EventIDs        []string // serie only, ordered
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasParticipant reports whether userID is currently in the participant list.
func (a Activity) HasParticipant(userID string) bool {
	for _, id := range a.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the activity reached its capacity.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// ParticipantSet returns the full participant set, owner included, preserving
// participant order.
func (a Activity) ParticipantSet() []string {
	if a.HasParticipant(a.OwnerID) {
		out := make([]string, len(a.Participants))
		copy(out, a.Participants)
		return out
	}
	out := make([]string, 0, len(a.Participants)+1)
	out = append(out, a.OwnerID)
	out = append(out, a.Participants...)
	return out
}

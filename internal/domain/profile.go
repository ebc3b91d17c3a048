package domain

import "time"

// Profile tracks how many activities a user currently participates in. It is
// created lazily the first time a user joins or creates an activity.
type Profile struct {
	UserID      string
	JoinedCount int
}

// Group is a reusable member list whose membership seeds participation for
// activities created from it. ActivityIDs is append-only from the engines'
// perspective.
type Group struct {
	ID          string
	MemberIDs   []string
	ActivityIDs []string
}

// GroupStreak is the consumer-side projection maintained from streak events.
type GroupStreak struct {
	GroupID      string
	UserID       string
	JoinCount    int
	LastJoinedAt time.Time
}

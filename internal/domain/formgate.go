package domain

import (
	"strings"
	"time"
)

// Draft carries the user-supplied fields for a new activity, before any id or
// participant list exists.
type Draft struct {
	Title           string
	Kind            Kind
	ScheduledAt     time.Time
	MaxParticipants int
	Visibility      Visibility
}

// GateResult reports whether a draft passed the precondition gate, with one
// reason per failing field.
type GateResult struct {
	Valid   bool
	Reasons []string
}

// FormGate validates drafts before the creation engine performs any write.
type FormGate interface {
	Check(draft Draft) GateResult
}

// DraftGate is the default FormGate.
type DraftGate struct{}

// Check validates required fields and value ranges.
func (DraftGate) Check(draft Draft) GateResult {
	var reasons []string
	if strings.TrimSpace(draft.Title) == "" {
		reasons = append(reasons, "title is required")
	}
	if draft.Kind != KindEvent && draft.Kind != KindSerie {
		reasons = append(reasons, "kind must be event or serie")
	}
	if draft.ScheduledAt.IsZero() {
		reasons = append(reasons, "scheduled_at is required")
	}
	if draft.MaxParticipants <= 0 {
		reasons = append(reasons, "max_participants must be > 0")
	}
	if draft.Visibility != VisibilityPublic && draft.Visibility != VisibilityPrivate {
		reasons = append(reasons, "visibility must be public or private")
	}
	return GateResult{Valid: len(reasons) == 0, Reasons: reasons}
}

package engine

import (
	"context"
	"errors"

	"example.com/gather/internal/domain"
	"example.com/gather/internal/observability"
)

// ParticipationEngine orchestrates join and quit for events and series,
// including mirroring serie membership changes into every child event.
type ParticipationEngine struct {
	stores   Stores
	notifier domain.StreakNotifier
	settings
}

// NewParticipationEngine constructs a ParticipationEngine.
func NewParticipationEngine(stores Stores, notifier domain.StreakNotifier, opts ...Option) *ParticipationEngine {
	e := &ParticipationEngine{stores: stores, notifier: notifier, settings: defaultSettings()}
	for _, opt := range opts {
		opt(&e.settings)
	}
	return e
}

// Join adds userID to the activity's participants and increments the user's
// joined counter. For a serie the membership change is mirrored best-effort
// into every child event after the serie write commits. A profile write
// failure rolls the activity write back in the single-event case only.
func (e *ParticipationEngine) Join(ctx context.Context, activityID, userID string) error {
	activity, err := e.stores.Activities.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundFailure("activity not loaded")
		}
		return storeFailure("failed to load activity", err)
	}
	if activity == nil {
		return notFoundFailure("activity not loaded")
	}
	if userID == activity.OwnerID {
		return validationFailure("owner cannot join their own activity")
	}
	if activity.HasParticipant(userID) {
		return validationFailure("already a participant")
	}
	if activity.IsFull() {
		return validationFailure("activity is full")
	}

	previous := make([]string, len(activity.Participants))
	copy(previous, activity.Participants)

	updated := *activity
	updated.Participants = append(previous[:len(previous):len(previous)], userID)
	updated.UpdatedAt = e.now()

	if err := e.stores.Activities.Update(ctx, updated.ID, updated); err != nil {
		return storeFailure("failed to update activity", err)
	}

	if updated.Kind == domain.KindSerie {
		e.mirror(ctx, &updated, userID, true)
	}

	if err := bumpProfile(ctx, e.stores.Profiles, userID, +1); err != nil {
		if updated.Kind == domain.KindEvent {
			rollback := updated
			rollback.Participants = previous
			if rerr := e.stores.Activities.Update(ctx, rollback.ID, rollback); rerr != nil {
				e.logger.Printf("compensation failed: could not restore participants of %s after profile error: %v", rollback.ID, rerr)
				observability.RecordCompensation("join", "failed")
			} else {
				observability.RecordCompensation("join", "applied")
			}
		}
		return storeFailure("failed to update participant profile", err)
	}

	if updated.GroupID != "" {
		if nerr := e.notifier.ActivityJoined(ctx, updated.GroupID, userID, updated.ScheduledAt); nerr != nil {
			e.logger.Printf("streak notify failed (activity=%s group=%s): %v", updated.ID, updated.GroupID, nerr)
		}
	}
	return nil
}

// Quit removes userID from the activity's participants and decrements the
// user's joined counter, clamped at zero. Serie removals are mirrored into
// child events best-effort.
func (e *ParticipationEngine) Quit(ctx context.Context, activityID, userID string) error {
	activity, err := e.stores.Activities.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundFailure("activity not loaded")
		}
		return storeFailure("failed to load activity", err)
	}
	if activity == nil {
		return notFoundFailure("activity not loaded")
	}
	if userID == activity.OwnerID {
		return validationFailure("owner cannot quit, only delete")
	}
	if !activity.HasParticipant(userID) {
		return validationFailure("not a participant")
	}

	updated := *activity
	updated.Participants = removeID(activity.Participants, userID)
	updated.UpdatedAt = e.now()

	if err := e.stores.Activities.Update(ctx, updated.ID, updated); err != nil {
		return storeFailure("failed to update activity", err)
	}

	if updated.Kind == domain.KindSerie {
		e.mirror(ctx, &updated, userID, false)
	}

	if err := bumpProfile(ctx, e.stores.Profiles, userID, -1); err != nil {
		e.logger.Printf("profile decrement failed after quit of %s by %s: %v", updated.ID, userID, err)
		return storeFailure("failed to update participant profile", err)
	}

	if updated.GroupID != "" {
		if nerr := e.notifier.ActivityLeft(ctx, updated.GroupID, userID, updated.ScheduledAt); nerr != nil {
			e.logger.Printf("streak notify failed (activity=%s group=%s): %v", updated.ID, updated.GroupID, nerr)
		}
	}
	return nil
}

// mirror propagates a serie membership change into every child event. Each
// child is handled independently; failures are logged and never abort the
// serie operation.
func (e *ParticipationEngine) mirror(ctx context.Context, serie *domain.Activity, userID string, joined bool) {
	for _, eventID := range serie.EventIDs {
		child, err := e.stores.Activities.Get(ctx, eventID)
		if err != nil || child == nil {
			e.logger.Printf("serie %s: could not load child event %s for mirroring: %v", serie.ID, eventID, err)
			continue
		}
		if joined {
			if child.HasParticipant(userID) {
				continue
			}
			child.Participants = append(child.Participants, userID)
		} else {
			if !child.HasParticipant(userID) {
				continue
			}
			child.Participants = removeID(child.Participants, userID)
		}
		child.UpdatedAt = e.now()
		if err := e.stores.Activities.Update(ctx, child.ID, *child); err != nil {
			e.logger.Printf("serie %s: could not mirror membership into child event %s: %v", serie.ID, eventID, err)
		}
	}
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

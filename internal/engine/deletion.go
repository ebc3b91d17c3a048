package engine

import (
	"context"
	"errors"
	"fmt"

	"example.com/gather/internal/domain"
	"example.com/gather/internal/observability"
)

// DeletionEngine removes events and series, refunding every participant's
// joined counter. Profile decrements are rolled back when a later step fails,
// so counters always reflect whether the activity still exists.
type DeletionEngine struct {
	stores   Stores
	notifier domain.StreakNotifier
	settings
}

// NewDeletionEngine constructs a DeletionEngine.
func NewDeletionEngine(stores Stores, notifier domain.StreakNotifier, opts ...Option) *DeletionEngine {
	e := &DeletionEngine{stores: stores, notifier: notifier, settings: defaultSettings()}
	for _, opt := range opts {
		opt(&e.settings)
	}
	return e
}

// Delete removes the activity after decrementing every participant's joined
// counter. All profiles are loaded up front; a partial batch result fails the
// operation before any write. If a decrement or the delete itself fails,
// already-applied decrements are restored. Group-linked activities scheduled
// in the future additionally emit a best-effort deletion notification.
func (e *DeletionEngine) Delete(ctx context.Context, activityID string) error {
	activity, err := e.stores.Activities.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundFailure("not found")
		}
		return storeFailure("failed to load activity", err)
	}
	if activity == nil {
		return notFoundFailure("not found")
	}

	participants := activity.ParticipantSet()

	var originals []domain.Profile
	if len(participants) > 0 {
		profiles, err := e.stores.Profiles.GetMany(ctx, participants)
		if err != nil {
			return storeFailure("failed to load participant profiles", err)
		}
		if len(profiles) != len(participants) {
			return storeFailure("failed to load participant profiles",
				fmt.Errorf("loaded %d of %d profiles", len(profiles), len(participants)))
		}

		for i, profile := range profiles {
			updated := profile
			if updated.JoinedCount > 0 {
				updated.JoinedCount--
			}
			if err := e.stores.Profiles.Upsert(ctx, updated); err != nil {
				e.restoreProfiles(ctx, profiles[:i])
				return storeFailure("failed to update participant profile", err)
			}
		}
		originals = profiles
	}

	if err := e.stores.Activities.Delete(ctx, activity.ID); err != nil {
		// The activity still exists, so every decrement must be undone.
		e.restoreProfiles(ctx, originals)
		return storeFailure("failed to delete activity", err)
	}

	if activity.Kind == domain.KindSerie {
		e.deleteChildren(ctx, activity)
	}

	if activity.GroupID != "" && activity.ScheduledAt.After(e.now()) {
		if nerr := e.notifier.ActivityDeleted(ctx, activity.GroupID, participants, activity.ScheduledAt); nerr != nil {
			e.logger.Printf("streak notify failed (activity=%s group=%s): %v", activity.ID, activity.GroupID, nerr)
		}
	}
	return nil
}

// restoreProfiles writes the pre-decrement snapshots back. Restoring the
// snapshot is equivalent to re-incrementing and keeps the zero clamp intact.
func (e *DeletionEngine) restoreProfiles(ctx context.Context, originals []domain.Profile) {
	for _, profile := range originals {
		if err := e.stores.Profiles.Upsert(ctx, profile); err != nil {
			e.logger.Printf("compensation failed: could not restore profile %s: %v", profile.UserID, err)
			observability.RecordCompensation("delete", "failed")
			continue
		}
		observability.RecordCompensation("delete", "applied")
	}
}

// deleteChildren removes a deleted serie's child events. Serie participation
// was refunded once, so children carry no further profile writes; failures
// are logged and tolerated.
func (e *DeletionEngine) deleteChildren(ctx context.Context, serie *domain.Activity) {
	for _, eventID := range serie.EventIDs {
		if err := e.stores.Activities.Delete(ctx, eventID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			e.logger.Printf("serie %s: could not delete child event %s: %v", serie.ID, eventID, err)
		}
	}
}

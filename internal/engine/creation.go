package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/gather/internal/domain"
	"example.com/gather/internal/observability"
)

// CreationEngine builds new events and series, optionally seeding
// participants from a group and linking the activity back into it.
type CreationEngine struct {
	stores Stores
	gate   domain.FormGate
	settings
}

// NewCreationEngine constructs a CreationEngine.
func NewCreationEngine(stores Stores, gate domain.FormGate, opts ...Option) *CreationEngine {
	e := &CreationEngine{stores: stores, gate: gate, settings: defaultSettings()}
	for _, opt := range opts {
		opt(&e.settings)
	}
	return e
}

// CreateEvent creates a single event owned by ownerID. When groupID is
// non-empty the group's members seed the participant list and the event id is
// appended to the group's linked activities. If the owner profile increment
// fails the freshly written event is deleted again before the failure is
// returned.
func (e *CreationEngine) CreateEvent(ctx context.Context, draft domain.Draft, ownerID, groupID string) (*domain.Activity, error) {
	if result := e.gate.Check(draft); !result.Valid {
		return nil, validationFailure(result.Reasons[0])
	}

	participants, group, err := e.seedParticipants(ctx, draft, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	activity := domain.Activity{
		ID:              e.stores.Activities.NewID(),
		Kind:            domain.KindEvent,
		OwnerID:         ownerID,
		Title:           draft.Title,
		ScheduledAt:     draft.ScheduledAt,
		MaxParticipants: draft.MaxParticipants,
		Participants:    participants,
		GroupID:         groupID,
		Visibility:      draft.Visibility,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.stores.Activities.Create(ctx, activity); err != nil {
		return nil, storeFailure("failed to write activity", err)
	}

	if err := bumpProfile(ctx, e.stores.Profiles, ownerID, +1); err != nil {
		e.deleteCreated(ctx, "create_event", activity.ID)
		return nil, storeFailure("failed to update owner profile", err)
	}

	if group != nil {
		if err := e.linkToGroup(ctx, group, activity.ID); err != nil {
			// The event and the owner counter stay in place; the reason
			// string tells the caller creation partially succeeded.
			return nil, storeFailure(fmt.Sprintf("event %s created but could not be linked to group %s", activity.ID, group.ID), err)
		}
	}

	observability.RecordActivityCreated(now)
	return &activity, nil
}

// CreateSerie creates one child event per occurrence and a serie referencing
// them in order. Already-created children are deleted again when a later step
// fails. The owner's joined counter is incremented once, for the serie.
func (e *CreationEngine) CreateSerie(ctx context.Context, draft domain.Draft, ownerID, groupID string, occurrences []time.Time) (*domain.Activity, error) {
	if result := e.gate.Check(draft); !result.Valid {
		return nil, validationFailure(result.Reasons[0])
	}
	if len(occurrences) == 0 {
		return nil, validationFailure("serie requires at least one occurrence")
	}

	participants, group, err := e.seedParticipants(ctx, draft, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	eventIDs := make([]string, 0, len(occurrences))
	for i, occurrence := range occurrences {
		child := domain.Activity{
			ID:              e.stores.Activities.NewID(),
			Kind:            domain.KindEvent,
			OwnerID:         ownerID,
			Title:           fmt.Sprintf("%s (%d/%d)", draft.Title, i+1, len(occurrences)),
			ScheduledAt:     occurrence,
			MaxParticipants: draft.MaxParticipants,
			Participants:    append([]string(nil), participants...),
			GroupID:         groupID,
			Visibility:      draft.Visibility,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := e.stores.Activities.Create(ctx, child); err != nil {
			e.deleteCreated(ctx, "create_serie", eventIDs...)
			return nil, storeFailure("failed to write serie event", err)
		}
		eventIDs = append(eventIDs, child.ID)
	}

	serie := domain.Activity{
		ID:              e.stores.Activities.NewID(),
		Kind:            domain.KindSerie,
		OwnerID:         ownerID,
		Title:           draft.Title,
		ScheduledAt:     occurrences[0],
		MaxParticipants: draft.MaxParticipants,
		Participants:    participants,
		GroupID:         groupID,
		Visibility:      draft.Visibility,
		EventIDs:        eventIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.stores.Activities.Create(ctx, serie); err != nil {
		e.deleteCreated(ctx, "create_serie", eventIDs...)
		return nil, storeFailure("failed to write serie", err)
	}

	if err := bumpProfile(ctx, e.stores.Profiles, ownerID, +1); err != nil {
		e.deleteCreated(ctx, "create_serie", append(eventIDs, serie.ID)...)
		return nil, storeFailure("failed to update owner profile", err)
	}

	if group != nil {
		if err := e.linkToGroup(ctx, group, serie.ID); err != nil {
			return nil, storeFailure(fmt.Sprintf("serie %s created but could not be linked to group %s", serie.ID, group.ID), err)
		}
	}

	observability.RecordActivityCreated(now)
	return &serie, nil
}

// seedParticipants resolves the initial participant list. It performs no
// writes, so any failure here leaves every store untouched.
func (e *CreationEngine) seedParticipants(ctx context.Context, draft domain.Draft, ownerID, groupID string) ([]string, *domain.Group, error) {
	participants := []string{ownerID}
	if groupID == "" {
		return participants, nil, nil
	}

	group, err := e.stores.Groups.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, notFoundFailure("group not found")
		}
		return nil, nil, storeFailure("failed to load group", err)
	}
	if group == nil {
		return nil, nil, notFoundFailure("group not found")
	}

	seen := map[string]struct{}{ownerID: {}}
	for _, member := range group.MemberIDs {
		if _, ok := seen[member]; ok {
			continue
		}
		seen[member] = struct{}{}
		participants = append(participants, member)
	}
	if len(participants) > draft.MaxParticipants {
		return nil, nil, validationFailure("group membership exceeds maximum participants")
	}
	return participants, group, nil
}

func (e *CreationEngine) linkToGroup(ctx context.Context, group *domain.Group, activityID string) error {
	linked := *group
	linked.ActivityIDs = append(append([]string(nil), group.ActivityIDs...), activityID)
	return e.stores.Groups.Update(ctx, linked.ID, linked)
}

// deleteCreated removes just-written activities while unwinding a failed
// creation. A failed delete is logged, never returned, so the root cause
// stays visible to the caller.
func (e *CreationEngine) deleteCreated(ctx context.Context, operation string, ids ...string) {
	for _, id := range ids {
		if err := e.stores.Activities.Delete(ctx, id); err != nil {
			e.logger.Printf("compensation failed: could not delete activity %s: %v", id, err)
			observability.RecordCompensation(operation, "failed")
			continue
		}
		observability.RecordCompensation(operation, "applied")
	}
}

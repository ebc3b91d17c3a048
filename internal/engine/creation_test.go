package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/gather/internal/domain"
)

func validDraft() domain.Draft {
	return domain.Draft{
		Title:           "Tuesday ride",
		Kind:            domain.KindEvent,
		ScheduledAt:     scheduled,
		MaxParticipants: 5,
		Visibility:      domain.VisibilityPublic,
	}
}

func newCreation(activities *stubActivityStore, profiles *stubProfileStore, groups *stubGroupStore, t *testing.T) *CreationEngine {
	return NewCreationEngine(
		Stores{Activities: activities, Profiles: profiles, Groups: groups},
		domain.DraftGate{},
		WithLogger(testLogger(t)),
	)
}

func TestCreateEventSeedsFromGroup(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"act-1"}
	profiles := newStubProfileStore()
	groups := newStubGroupStore(domain.Group{ID: "g1", MemberIDs: []string{"m1", "owner", "m2"}})
	engine := newCreation(activities, profiles, groups, t)

	created, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "g1")
	require.NoError(t, err)

	require.Equal(t, "act-1", created.ID)
	require.Equal(t, []string{"owner", "m1", "m2"}, created.Participants, "owner deduplicated against group members")
	require.Equal(t, "g1", created.GroupID)
	require.Equal(t, 1, profiles.count("owner"))
	require.Equal(t, []string{"act-1"}, groups.groups["g1"].ActivityIDs)
}

func TestCreateEventWithoutGroup(t *testing.T) {
	activities := newStubActivityStore()
	profiles := newStubProfileStore()
	groups := newStubGroupStore()
	engine := newCreation(activities, profiles, groups, t)

	created, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "")
	require.NoError(t, err)

	require.Equal(t, []string{"owner"}, created.Participants)
	require.Empty(t, created.GroupID)
	require.Zero(t, groups.updates)
}

func TestCreateEventRejectsInvalidDraft(t *testing.T) {
	activities := newStubActivityStore()
	engine := newCreation(activities, newStubProfileStore(), newStubGroupStore(), t)

	draft := validDraft()
	draft.Title = "  "

	_, err := engine.CreateEvent(context.Background(), draft, "owner", "")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureValidation, failure.Kind)
	require.Equal(t, "title is required", failure.Reason, "first invalid field's reason surfaces")
	require.Zero(t, activities.creates)
}

func TestCreateEventGroupNotFound(t *testing.T) {
	activities := newStubActivityStore()
	profiles := newStubProfileStore()
	engine := newCreation(activities, profiles, newStubGroupStore(), t)

	_, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "missing")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureNotFound, failure.Kind)
	require.Equal(t, "group not found", failure.Reason)
	require.Zero(t, activities.creates, "must fail before any write")
	require.Zero(t, profiles.upserts)
}

func TestCreateEventSeedOverflowRejected(t *testing.T) {
	activities := newStubActivityStore()
	groups := newStubGroupStore(domain.Group{ID: "g1", MemberIDs: []string{"m1", "m2", "m3"}})
	engine := newCreation(activities, newStubProfileStore(), groups, t)

	draft := validDraft()
	draft.MaxParticipants = 2

	_, err := engine.CreateEvent(context.Background(), draft, "owner", "g1")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureValidation, failure.Kind)
	require.Equal(t, "group membership exceeds maximum participants", failure.Reason)
	require.Zero(t, activities.creates)
}

func TestCreateEventProfileFailureDeletesActivity(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"act-1"}
	profiles := newStubProfileStore()
	profiles.failUpsert["owner"] = errors.New("profile write refused")
	groups := newStubGroupStore(domain.Group{ID: "g1", MemberIDs: []string{"m1", "m2"}})
	engine := newCreation(activities, profiles, groups, t)

	_, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "g1")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureStore, failure.Kind)
	require.NotContains(t, activities.activities, "act-1", "compensating delete must remove the event")
	require.Zero(t, groups.updates)
}

func TestCreateEventCompensationFailureKeepsRootCause(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"act-1"}
	activities.failDelete["act-1"] = errors.New("delete refused")
	profiles := newStubProfileStore()
	cause := errors.New("profile write refused")
	profiles.failUpsert["owner"] = cause
	engine := newCreation(activities, profiles, newStubGroupStore(), t)

	_, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureStore, failure.Kind)
	require.ErrorIs(t, err, cause, "compensation failure must not mask the root cause")
}

func TestCreateEventGroupLinkFailureReported(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"act-1"}
	profiles := newStubProfileStore()
	groups := newStubGroupStore(domain.Group{ID: "g1", MemberIDs: []string{"m1"}})
	groups.failUpdate["g1"] = errors.New("group write refused")
	engine := newCreation(activities, profiles, groups, t)

	_, err := engine.CreateEvent(context.Background(), validDraft(), "owner", "g1")

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureStore, failure.Kind)
	require.Contains(t, failure.Reason, "created but could not be linked")
	require.Contains(t, activities.activities, "act-1", "activity is not rolled back on link failure")
	require.Equal(t, 1, profiles.count("owner"), "owner counter is not rolled back on link failure")
}

func TestCreateSerieCreatesChildrenInOrder(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"e1", "e2", "e3", "serie-1"}
	profiles := newStubProfileStore()
	engine := newCreation(activities, profiles, newStubGroupStore(), t)

	draft := validDraft()
	draft.Kind = domain.KindSerie
	occurrences := []time.Time{scheduled, scheduled.AddDate(0, 0, 7), scheduled.AddDate(0, 0, 14)}

	created, err := engine.CreateSerie(context.Background(), draft, "owner", "", occurrences)
	require.NoError(t, err)

	require.Equal(t, "serie-1", created.ID)
	require.Equal(t, domain.KindSerie, created.Kind)
	require.Equal(t, []string{"e1", "e2", "e3"}, created.EventIDs)
	require.Equal(t, scheduled, created.ScheduledAt)
	require.Equal(t, occurrences[1], activities.activities["e2"].ScheduledAt)
	require.Equal(t, 1, profiles.count("owner"), "serie participation counted once")
}

func TestCreateSerieChildFailureCompensates(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"e1", "e2", "serie-1"}
	activities.failCreate["e2"] = errors.New("child write refused")
	engine := newCreation(activities, newStubProfileStore(), newStubGroupStore(), t)

	draft := validDraft()
	draft.Kind = domain.KindSerie

	_, err := engine.CreateSerie(context.Background(), draft, "owner", "", []time.Time{scheduled, scheduled.AddDate(0, 0, 7)})

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureStore, failure.Kind)
	require.NotContains(t, activities.activities, "e1", "already-created children must be deleted")
	require.NotContains(t, activities.activities, "serie-1")
}

func TestCreateSerieProfileFailureCompensates(t *testing.T) {
	activities := newStubActivityStore()
	activities.ids = []string{"e1", "serie-1"}
	profiles := newStubProfileStore()
	profiles.failUpsert["owner"] = errors.New("profile write refused")
	engine := newCreation(activities, profiles, newStubGroupStore(), t)

	draft := validDraft()
	draft.Kind = domain.KindSerie

	_, err := engine.CreateSerie(context.Background(), draft, "owner", "", []time.Time{scheduled})

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureStore, failure.Kind)
	require.Empty(t, activities.activities, "serie and children must be deleted")
}

func TestCreateSerieRequiresOccurrences(t *testing.T) {
	engine := newCreation(newStubActivityStore(), newStubProfileStore(), newStubGroupStore(), t)

	draft := validDraft()
	draft.Kind = domain.KindSerie

	_, err := engine.CreateSerie(context.Background(), draft, "owner", "", nil)

	failure, ok := AsFailure(err)
	require.True(t, ok)
	require.Equal(t, FailureValidation, failure.Kind)
	require.Equal(t, "serie requires at least one occurrence", failure.Reason)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivityAccessorsOnMapValues(t *testing.T) {
	activities := map[string]Activity{
		"act-1": {
			ID:              "act-1",
			Kind:            KindEvent,
			OwnerID:         "owner",
			MaxParticipants: 2,
			Participants:    []string{"owner", "u1"},
		},
	}

	// Accessors must work directly on map index expressions, which are not
	// addressable.
	require.True(t, activities["act-1"].HasParticipant("u1"))
	require.False(t, activities["act-1"].HasParticipant("u2"))
	require.True(t, activities["act-1"].IsFull())
	require.Equal(t, []string{"owner", "u1"}, activities["act-1"].ParticipantSet())
}

func TestParticipantSetPrependsImplicitOwner(t *testing.T) {
	activity := Activity{OwnerID: "owner", Participants: []string{"u1"}}
	require.Equal(t, []string{"owner", "u1"}, activity.ParticipantSet())

	explicit := Activity{OwnerID: "owner", Participants: []string{"owner", "u1"}}
	set := explicit.ParticipantSet()
	require.Equal(t, []string{"owner", "u1"}, set)

	set[0] = "mutated"
	require.Equal(t, "owner", explicit.Participants[0], "returned set must be a copy")
}

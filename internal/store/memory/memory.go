// Package memory provides mutex-guarded in-memory capability stores for
// local development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"example.com/gather/internal/domain"
)

// ActivityStore keeps activities in a map keyed by id.
type ActivityStore struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
}

// NewActivityStore constructs an empty ActivityStore.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{activities: make(map[string]domain.Activity)}
}

func (s *ActivityStore) Get(_ context.Context, id string) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activity, ok := s.activities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneActivity(activity)
	return &out, nil
}

func (s *ActivityStore) Create(_ context.Context, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[activity.ID]; ok {
		return fmt.Errorf("activity %s already exists", activity.ID)
	}
	s.activities[activity.ID] = cloneActivity(activity)
	return nil
}

func (s *ActivityStore) Update(_ context.Context, id string, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return domain.ErrNotFound
	}
	s.activities[id] = cloneActivity(activity)
	return nil
}

func (s *ActivityStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *ActivityStore) NewID() string {
	return uuid.NewString()
}

func cloneActivity(activity domain.Activity) domain.Activity {
	out := activity
	out.Participants = append([]string(nil), activity.Participants...)
	out.EventIDs = append([]string(nil), activity.EventIDs...)
	return out
}

// ProfileStore keeps joined counters in a map keyed by user id.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

// NewProfileStore constructs an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.Profile)}
}

func (s *ProfileStore) Get(_ context.Context, userID string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	out := profile
	return &out, nil
}

func (s *ProfileStore) GetMany(_ context.Context, userIDs []string) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, ok := s.profiles[id]
		if !ok {
			profile = domain.Profile{UserID: id}
		}
		out = append(out, profile)
	}
	return out, nil
}

func (s *ProfileStore) Upsert(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = profile
	return nil
}

// GroupStore keeps groups in a map keyed by id.
type GroupStore struct {
	mu     sync.RWMutex
	groups map[string]domain.Group
}

// NewGroupStore constructs a GroupStore seeded with the provided groups.
func NewGroupStore(groups ...domain.Group) *GroupStore {
	s := &GroupStore{groups: make(map[string]domain.Group)}
	for _, group := range groups {
		s.groups[group.ID] = cloneGroup(group)
	}
	return s
}

func (s *GroupStore) Get(_ context.Context, id string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneGroup(group)
	return &out, nil
}

func (s *GroupStore) Update(_ context.Context, id string, group domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return domain.ErrNotFound
	}
	s.groups[id] = cloneGroup(group)
	return nil
}

func cloneGroup(group domain.Group) domain.Group {
	out := group
	out.MemberIDs = append([]string(nil), group.MemberIDs...)
	out.ActivityIDs = append([]string(nil), group.ActivityIDs...)
	return out
}

package engine

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/gather/internal/domain"
)

// In-memory test doubles with failure injection, shared by the engine tests.

type stubActivityStore struct {
	activities map[string]domain.Activity
	ids        []string

	creates int
	updates int
	deletes int

	failGet    map[string]error
	failCreate map[string]error
	failUpdate map[string]error
	failDelete map[string]error
}

func newStubActivityStore(activities ...domain.Activity) *stubActivityStore {
	s := &stubActivityStore{
		activities: make(map[string]domain.Activity),
		failGet:    make(map[string]error),
		failCreate: make(map[string]error),
		failUpdate: make(map[string]error),
		failDelete: make(map[string]error),
	}
	for _, activity := range activities {
		s.activities[activity.ID] = activity
	}
	return s
}

func (s *stubActivityStore) Get(_ context.Context, id string) (*domain.Activity, error) {
	if err := s.failGet[id]; err != nil {
		return nil, err
	}
	activity, ok := s.activities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := activity
	return &out, nil
}

func (s *stubActivityStore) Create(_ context.Context, activity domain.Activity) error {
	if err := s.failCreate[activity.ID]; err != nil {
		return err
	}
	s.creates++
	s.activities[activity.ID] = activity
	return nil
}

func (s *stubActivityStore) Update(_ context.Context, id string, activity domain.Activity) error {
	if err := s.failUpdate[id]; err != nil {
		return err
	}
	s.updates++
	s.activities[id] = activity
	return nil
}

func (s *stubActivityStore) Delete(_ context.Context, id string) error {
	if err := s.failDelete[id]; err != nil {
		return err
	}
	if _, ok := s.activities[id]; !ok {
		return domain.ErrNotFound
	}
	s.deletes++
	delete(s.activities, id)
	return nil
}

func (s *stubActivityStore) NewID() string {
	if len(s.ids) > 0 {
		id := s.ids[0]
		s.ids = s.ids[1:]
		return id
	}
	return uuid.NewString()
}

type stubProfileStore struct {
	profiles map[string]domain.Profile

	upserts int

	failUpsert  map[string]error
	failGetMany error
	dropLast    bool // simulate an incomplete batch result
}

func newStubProfileStore(profiles ...domain.Profile) *stubProfileStore {
	s := &stubProfileStore{
		profiles:   make(map[string]domain.Profile),
		failUpsert: make(map[string]error),
	}
	for _, profile := range profiles {
		s.profiles[profile.UserID] = profile
	}
	return s
}

func (s *stubProfileStore) Get(_ context.Context, userID string) (*domain.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	out := profile
	return &out, nil
}

func (s *stubProfileStore) GetMany(_ context.Context, userIDs []string) ([]domain.Profile, error) {
	if s.failGetMany != nil {
		return nil, s.failGetMany
	}
	out := make([]domain.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, ok := s.profiles[id]
		if !ok {
			profile = domain.Profile{UserID: id}
		}
		out = append(out, profile)
	}
	if s.dropLast && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (s *stubProfileStore) Upsert(_ context.Context, profile domain.Profile) error {
	if err := s.failUpsert[profile.UserID]; err != nil {
		delete(s.failUpsert, profile.UserID)
		return err
	}
	s.upserts++
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *stubProfileStore) count(userID string) int {
	return s.profiles[userID].JoinedCount
}

type stubGroupStore struct {
	groups map[string]domain.Group

	updates    int
	failUpdate map[string]error
}

func newStubGroupStore(groups ...domain.Group) *stubGroupStore {
	s := &stubGroupStore{
		groups:     make(map[string]domain.Group),
		failUpdate: make(map[string]error),
	}
	for _, group := range groups {
		s.groups[group.ID] = group
	}
	return s
}

func (s *stubGroupStore) Get(_ context.Context, id string) (*domain.Group, error) {
	group, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := group
	return &out, nil
}

func (s *stubGroupStore) Update(_ context.Context, id string, group domain.Group) error {
	if err := s.failUpdate[id]; err != nil {
		return err
	}
	s.updates++
	s.groups[id] = group
	return nil
}

type notifierCall struct {
	kind        string
	groupID     string
	userID      string
	userIDs     []string
	scheduledAt time.Time
}

type stubNotifier struct {
	calls []notifierCall
	err   error
}

func (n *stubNotifier) ActivityJoined(_ context.Context, groupID, userID string, scheduledAt time.Time) error {
	n.calls = append(n.calls, notifierCall{kind: "joined", groupID: groupID, userID: userID, scheduledAt: scheduledAt})
	return n.err
}

func (n *stubNotifier) ActivityLeft(_ context.Context, groupID, userID string, scheduledAt time.Time) error {
	n.calls = append(n.calls, notifierCall{kind: "left", groupID: groupID, userID: userID, scheduledAt: scheduledAt})
	return n.err
}

func (n *stubNotifier) ActivityDeleted(_ context.Context, groupID string, userIDs []string, scheduledAt time.Time) error {
	n.calls = append(n.calls, notifierCall{kind: "deleted", groupID: groupID, userIDs: userIDs, scheduledAt: scheduledAt})
	return n.err
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(testWriter{t}, "", 0)
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}

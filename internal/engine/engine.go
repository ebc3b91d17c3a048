package engine

import (
	"context"
	"log"
	"time"

	"example.com/gather/internal/domain"
)

// Stores bundles the capability stores shared by the engines.
type Stores struct {
	Activities domain.ActivityStore
	Profiles   domain.ProfileStore
	Groups     domain.GroupStore
}

type settings struct {
	logger *log.Logger
	now    func() time.Time
}

func defaultSettings() settings {
	return settings{
		logger: log.New(log.Writer(), "[engine] ", log.LstdFlags|log.Lshortfile),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Option configures optional engine behaviour.
type Option func(*settings)

// WithLogger overrides the logger used for compensation and notifier reports.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// bumpProfile adjusts a user's joined counter by delta, creating the profile
// lazily and clamping the counter at zero.
func bumpProfile(ctx context.Context, profiles domain.ProfileStore, userID string, delta int) error {
	profile, err := profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &domain.Profile{UserID: userID}
	}
	profile.JoinedCount += delta
	if profile.JoinedCount < 0 {
		profile.JoinedCount = 0
	}
	return profiles.Upsert(ctx, *profile)
}

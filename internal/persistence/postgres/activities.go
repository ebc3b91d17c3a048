// Package postgres provides pgx-backed implementations of the capability
// stores.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/gather/internal/domain"
)

// ActivityStore persists events and series in the activities table.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore constructs an ActivityStore.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

const activityColumns = `id, kind, owner_id, title, scheduled_at, max_participants, participants, group_id, visibility, event_ids, created_at, updated_at`

// Get loads an activity by id.
func (s *ActivityStore) Get(ctx context.Context, id string) (*domain.Activity, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)

	var activity domain.Activity
	var kind, visibility string
	err := row.Scan(
		&activity.ID, &kind, &activity.OwnerID, &activity.Title,
		&activity.ScheduledAt, &activity.MaxParticipants, &activity.Participants,
		&activity.GroupID, &visibility, &activity.EventIDs,
		&activity.CreatedAt, &activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	activity.Kind = domain.Kind(kind)
	activity.Visibility = domain.Visibility(visibility)
	return &activity, nil
}

// Create inserts a new activity.
func (s *ActivityStore) Create(ctx context.Context, activity domain.Activity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO activities (`+activityColumns+`)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		activity.ID, string(activity.Kind), activity.OwnerID, activity.Title,
		activity.ScheduledAt, activity.MaxParticipants, activity.Participants,
		activity.GroupID, string(activity.Visibility), activity.EventIDs,
		activity.CreatedAt, activity.UpdatedAt,
	)
	return err
}

// Update overwrites the mutable columns of an existing activity.
func (s *ActivityStore) Update(ctx context.Context, id string, activity domain.Activity) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE activities
         SET title = $2, scheduled_at = $3, max_participants = $4,
             participants = $5, visibility = $6, event_ids = $7, updated_at = $8
         WHERE id = $1`,
		id, activity.Title, activity.ScheduledAt, activity.MaxParticipants,
		activity.Participants, string(activity.Visibility), activity.EventIDs,
		activity.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an activity by id.
func (s *ActivityStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NewID allocates a store-assigned identifier.
func (s *ActivityStore) NewID() string {
	return uuid.NewString()
}

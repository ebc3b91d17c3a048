package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/gather/internal/domain"
)

// ProfileStore persists joined counters in the profiles table.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore constructs a ProfileStore.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Get loads a profile, returning (nil, nil) when none exists yet.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT user_id, joined_count FROM profiles WHERE user_id = $1`, userID)

	var profile domain.Profile
	if err := row.Scan(&profile.UserID, &profile.JoinedCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetMany loads the requested profiles in request order. Users without a row
// yet read as zero-count profiles, mirroring Get's lazy contract.
func (s *ProfileStore) GetMany(ctx context.Context, userIDs []string) ([]domain.Profile, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id, joined_count FROM profiles WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Profile, len(userIDs))
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(&profile.UserID, &profile.JoinedCount); err != nil {
			return nil, err
		}
		byID[profile.UserID] = profile
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		profile, ok := byID[id]
		if !ok {
			profile = domain.Profile{UserID: id}
		}
		out = append(out, profile)
	}
	return out, nil
}

// Upsert writes a profile, creating it on first reference.
func (s *ProfileStore) Upsert(ctx context.Context, profile domain.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, joined_count) VALUES ($1, $2)
         ON CONFLICT (user_id) DO UPDATE SET joined_count = EXCLUDED.joined_count`,
		profile.UserID, profile.JoinedCount,
	)
	return err
}

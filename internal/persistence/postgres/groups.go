package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/gather/internal/domain"
)

// GroupStore persists groups and their linked-activity lists.
type GroupStore struct {
	pool *pgxpool.Pool
}

// NewGroupStore constructs a GroupStore.
func NewGroupStore(pool *pgxpool.Pool) *GroupStore {
	return &GroupStore{pool: pool}
}

// Get loads a group by id.
func (s *GroupStore) Get(ctx context.Context, id string) (*domain.Group, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, member_ids, activity_ids FROM groups WHERE id = $1`, id)

	var group domain.Group
	if err := row.Scan(&group.ID, &group.MemberIDs, &group.ActivityIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// Update overwrites a group's member and linked-activity lists.
func (s *GroupStore) Update(ctx context.Context, id string, group domain.Group) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE groups SET member_ids = $2, activity_ids = $3 WHERE id = $1`,
		id, group.MemberIDs, group.ActivityIDs,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

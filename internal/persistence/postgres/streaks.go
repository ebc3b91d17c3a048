package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/gather/internal/domain"
)

// StreakStore maintains the per-group streak projection fed by the consumer.
type StreakStore struct {
	pool *pgxpool.Pool
}

// NewStreakStore constructs a StreakStore.
func NewStreakStore(pool *pgxpool.Pool) *StreakStore {
	return &StreakStore{pool: pool}
}

// RecordJoin increments a member's streak counter.
func (s *StreakStore) RecordJoin(ctx context.Context, groupID, userID string, occurredAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO group_streaks (group_id, user_id, join_count, last_joined_at)
         VALUES ($1, $2, 1, $3)
         ON CONFLICT (group_id, user_id)
         DO UPDATE SET join_count = group_streaks.join_count + 1, last_joined_at = EXCLUDED.last_joined_at`,
		groupID, userID, occurredAt,
	)
	return err
}

// RecordLeave decrements a member's streak counter, clamped at zero.
func (s *StreakStore) RecordLeave(ctx context.Context, groupID, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE group_streaks SET join_count = GREATEST(join_count - 1, 0)
         WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	return err
}

// RecordDeleted decrements the streak counters of every affected member.
func (s *StreakStore) RecordDeleted(ctx context.Context, groupID string, userIDs []string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE group_streaks SET join_count = GREATEST(join_count - 1, 0)
         WHERE group_id = $1 AND user_id = ANY($2)`,
		groupID, userIDs,
	)
	return err
}

// ListByGroup returns the streak projection for a group, highest counters
// first.
func (s *StreakStore) ListByGroup(ctx context.Context, groupID string) ([]domain.GroupStreak, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT group_id, user_id, join_count, COALESCE(last_joined_at, 'epoch'::timestamptz)
         FROM group_streaks WHERE group_id = $1
         ORDER BY join_count DESC, user_id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GroupStreak
	for rows.Next() {
		var streak domain.GroupStreak
		if err := rows.Scan(&streak.GroupID, &streak.UserID, &streak.JoinCount, &streak.LastJoinedAt); err != nil {
			return nil, err
		}
		out = append(out, streak)
	}
	return out, rows.Err()
}

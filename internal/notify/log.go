package notify

import (
	"context"
	"log"
	"time"
)

// LogNotifier writes streak events to the logger instead of Kafka. Used when
// no brokers are configured, e.g. local development against memory stores.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ActivityJoined(_ context.Context, groupID, userID string, scheduledAt time.Time) error {
	n.logger.Printf("streak joined (group=%s user=%s scheduled=%s)", groupID, userID, scheduledAt.Format(time.RFC3339))
	return nil
}

func (n *LogNotifier) ActivityLeft(_ context.Context, groupID, userID string, scheduledAt time.Time) error {
	n.logger.Printf("streak left (group=%s user=%s scheduled=%s)", groupID, userID, scheduledAt.Format(time.RFC3339))
	return nil
}

func (n *LogNotifier) ActivityDeleted(_ context.Context, groupID string, userIDs []string, scheduledAt time.Time) error {
	n.logger.Printf("streak deleted (group=%s users=%d scheduled=%s)", groupID, len(userIDs), scheduledAt.Format(time.RFC3339))
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
}

// KafkaNotifier implements the streak notifier contract on top of a Kafka
// writer. Messages are keyed by group id; the event type travels in a header
// so the consumer can dispatch without decoding the payload.
type KafkaNotifier struct {
	producer messageWriter
	now      func() time.Time
}

// NewKafkaNotifier constructs a KafkaNotifier around the producer.
func NewKafkaNotifier(producer *KafkaProducer) *KafkaNotifier {
	return newKafkaNotifier(producer)
}

func newKafkaNotifier(producer messageWriter) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ActivityJoined publishes a streak.activity_joined event.
func (n *KafkaNotifier) ActivityJoined(ctx context.Context, groupID, userID string, scheduledAt time.Time) error {
	return n.publish(ctx, EventTypeJoined, groupID, ActivityJoined{
		GroupID:     groupID,
		UserID:      userID,
		ScheduledAt: scheduledAt,
		OccurredAt:  n.now(),
	})
}

// ActivityLeft publishes a streak.activity_left event.
func (n *KafkaNotifier) ActivityLeft(ctx context.Context, groupID, userID string, scheduledAt time.Time) error {
	return n.publish(ctx, EventTypeLeft, groupID, ActivityLeft{
		GroupID:     groupID,
		UserID:      userID,
		ScheduledAt: scheduledAt,
		OccurredAt:  n.now(),
	})
}

// ActivityDeleted publishes a streak.activity_deleted event.
func (n *KafkaNotifier) ActivityDeleted(ctx context.Context, groupID string, userIDs []string, scheduledAt time.Time) error {
	return n.publish(ctx, EventTypeDeleted, groupID, ActivityDeleted{
		GroupID:     groupID,
		UserIDs:     userIDs,
		ScheduledAt: scheduledAt,
		OccurredAt:  n.now(),
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType, groupID string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return n.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(groupID),
		Value: value,
		Time:  n.now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "group_id", Value: []byte(groupID)},
		},
	})
}

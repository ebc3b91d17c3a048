package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	messages []kafka.Message
	err      error
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaNotifierPublishesJoined(t *testing.T) {
	writer := &stubWriter{}
	notifier := newKafkaNotifier(writer)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	notifier.now = func() time.Time { return now }

	scheduled := now.Add(48 * time.Hour)
	require.NoError(t, notifier.ActivityJoined(context.Background(), "g1", "u1", scheduled))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "g1", string(msg.Key), "messages are keyed by group")
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, EventTypeJoined, string(msg.Headers[0].Value))
	require.JSONEq(t,
		`{"group_id":"g1","user_id":"u1","scheduled_at":"2026-03-03T12:00:00Z","occurred_at":"2026-03-01T12:00:00Z"}`,
		string(msg.Value))
}

func TestKafkaNotifierPublishesDeleted(t *testing.T) {
	writer := &stubWriter{}
	notifier := newKafkaNotifier(writer)

	require.NoError(t, notifier.ActivityDeleted(context.Background(), "g1", []string{"owner", "u1"}, time.Now().Add(time.Hour)))

	require.Len(t, writer.messages, 1)
	require.Equal(t, EventTypeDeleted, string(writer.messages[0].Headers[0].Value))
}

func TestKafkaNotifierSurfacesWriteError(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker unavailable")}
	notifier := newKafkaNotifier(writer)

	err := notifier.ActivityLeft(context.Background(), "g1", "u1", time.Now())
	require.Error(t, err, "callers log the error but the notifier must report it")
}

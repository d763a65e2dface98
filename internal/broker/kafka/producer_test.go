package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/BearBump/ShipTrack/internal/broker/messages"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	last []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.last = append([]kafka.Message{}, msgs...)
	return w.err
}

func TestProducer_PublishSessionEvent(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw)

	ev := messages.SessionEvent{
		EventID:    "4b3c1f0e-9a7d-4c1e-8f55-0d2f3a9b6c10",
		Type:       "registered",
		Username:   "alice",
		SessionID:  "sid-1",
		OccurredAt: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "shiptrack.session.events", []byte(ev.Username), b))
	require.Len(t, fw.last, 1)
	msg := fw.last[0]
	require.Equal(t, "shiptrack.session.events", msg.Topic)
	require.Equal(t, []byte("alice"), msg.Key)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &wire))
	require.Equal(t, map[string]any{
		"event_id":    ev.EventID,
		"type":        "registered",
		"username":    "alice",
		"session_id":  "sid-1",
		"occurred_at": "2025-09-01T12:00:00Z",
	}, wire)
	require.NoError(t, p.Close())
}

func TestProducer_SessionIDOmittedWhenEmpty(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw)

	b, err := json.Marshal(messages.SessionEvent{EventID: "e1", Type: "logged_out", Username: "bob"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "t", []byte("bob"), b))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(fw.last[0].Value, &wire))
	require.NotContains(t, wire, "session_id")
	require.Equal(t, "logged_out", wire["type"])
}

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:0"})
	require.NotNil(t, p)
	require.NoError(t, p.Close())
}

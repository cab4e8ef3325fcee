package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domspeech "github.com/kailas-cloud/speeches/internal/domain/speech"
	"github.com/kailas-cloud/speeches/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterStoreMetrics()
	os.Exit(m.Run())
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestPublisher(w *fakeWriter) *Publisher {
	p := newPublisher(w, []string{"broker:9092"}, nil)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestSpeechCreated_Message(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	s := domspeech.Reconstruct("abc", domspeech.Fields{
		Title: "T", Body: "B", Author: "Jane",
		SpeechDate: domspeech.MustParseDate("2024-01-10"),
		Keywords:   []string{"liberty"},
	})
	require.NoError(t, p.SpeechCreated(context.Background(), s))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "abc", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "speech.created", string(msg.Headers[0].Value))
	assert.JSONEq(t, `{
	  "type": "speech.created",
	  "id": "abc",
	  "speech": {"id":"abc","title":"T","body":"B","author":"Jane","speechDate":"2024-01-10","keywords":["liberty"]},
	  "occurred_at": "2024-03-01T12:00:00Z"
	}`, string(msg.Value))
}

func TestSpeechDeleted_NullSpeech(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	require.NoError(t, p.SpeechDeleted(context.Background(), "abc"))

	var e map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &e))
	assert.Equal(t, "speech.deleted", e["type"])
	assert.Nil(t, e["speech"])
}

func TestSpeechUpdated_Type(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	require.NoError(t, p.SpeechUpdated(context.Background(), domspeech.Reconstruct("abc", domspeech.Fields{})))

	var e Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &e))
	assert.Equal(t, TypeUpdated, e.Type)
	assert.Equal(t, "abc", e.ID)
	require.NotNil(t, e.Speech)
}

func TestPublish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newTestPublisher(w)

	before := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues("speech.deleted", "error"))
	err := p.SpeechDeleted(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")

	after := testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues("speech.deleted", "error"))
	assert.Equal(t, before+1, after)
}

func TestHealthCheck_DialError(t *testing.T) {
	p := newTestPublisher(&fakeWriter{})
	p.dial = func(context.Context, string, string) (*kafka.Conn, error) {
		return nil, errors.New("connection refused")
	}

	err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker:9092")
}

func TestNewPublisher_RequiresBroker(t *testing.T) {
	_, err := NewPublisher(Config{}, nil)
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newTestPublisher(w).Close())
	assert.True(t, w.closed)
}

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleResponse() recommend.Response {
	return recommend.Response{
		Recommender: "visibility",
		Targets: []recommend.RecommendedTarget{
			{Target: catalog.Target{ID: "M42", Name: "Orion Nebula"}, Score: 88},
		},
	}
}

func TestKafkaPublisherPublish(t *testing.T) {
	writer := &recordingWriter{}
	stamp := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)
	pub := &KafkaPublisher{writer: writer, now: func() time.Time { return stamp }}

	require.NoError(t, pub.Publish(context.Background(), "chicago", sampleResponse()))
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	require.Equal(t, "chicago", string(msg.Key))
	require.Equal(t, "visibility", string(msg.Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.Equal(t, "chicago", env.ObserverID)
	require.True(t, stamp.Equal(env.PublishedAt))
	require.Equal(t, "M42", env.Response.Targets[0].Target.ID)

	require.NoError(t, pub.Close())
	require.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker down")
	pub := &KafkaPublisher{writer: &recordingWriter{err: boom}, now: time.Now}

	err := pub.Publish(context.Background(), "chicago", sampleResponse())
	require.ErrorIs(t, err, boom)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	require.NoError(t, NewLogPublisher(logger).Publish(context.Background(), "chicago", sampleResponse()))
	require.Contains(t, buf.String(), `"top":"M42"`)
	require.Contains(t, buf.String(), `"observerId":"chicago"`)
}

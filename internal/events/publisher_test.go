package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNew_NoBrokersIsNop(t *testing.T) {
	p := New(nil, "restaurant-events")
	assert.IsType(t, NopPublisher{}, p)
	p.Publish(context.Background(), ContactCreated, "1", nil)
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	p.Publish(context.Background(), BookingCreated, "abc", map[string]string{"name": "Ada"})

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("abc"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)

	var evt struct {
		Type string            `json:"type"`
		ID   string            `json:"id"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, BookingCreated, evt.Type)
	assert.Equal(t, "abc", evt.ID)
	assert.Equal(t, "Ada", evt.Data["name"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteFailureIsSwallowed(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), MenuDeleted, "x", nil)
	})
	assert.Len(t, w.msgs, 1)
}

func TestKafkaPublisher_UnencodableDataIsDropped(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	p.Publish(context.Background(), MenuCreated, "x", make(chan int))
	assert.Empty(t, w.msgs)
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigen-go/internal/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishVersionCreated(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w)

	err := p.PublishVersionCreated(context.Background(), VersionEvent{ID: 12, CreatedAt: 1700, CodeExcerpt: "const a"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "12", string(w.msgs[0].Key))

	var got VersionEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, VersionEvent{Type: EventVersionCreated, ID: 12, CreatedAt: 1700, CodeExcerpt: "const a"}, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishVersionCreated_WriteError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker down")})
	err := p.PublishVersionCreated(context.Background(), VersionEvent{ID: 1})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewProducer_NoBrokers(t *testing.T) {
	assert.Nil(t, NewProducer(config.KafkaConfig{Brokers: " , "}))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, splitBrokers(""))
}

func TestNewProducer_WriterConfig(t *testing.T) {
	p := NewProducer(config.KafkaConfig{Brokers: "localhost:9092, localhost:9093", Topic: "uigen.versions"})
	require.NotNil(t, p)
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.(*producer).writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, "uigen.versions", w.Topic)
	assert.Equal(t, "localhost:9092,localhost:9093", w.Addr.String())
}

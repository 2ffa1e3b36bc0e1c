package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"currency-converter-live/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	channel string
	payload []byte
}

type MockRedis struct {
	Published  []published
	PublishErr error
	PingErr    error
	Closed     bool
}

func (m *MockRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	if m.PublishErr != nil {
		cmd := redis.NewIntCmd(ctx)
		cmd.SetErr(m.PublishErr)
		return cmd
	}
	m.Published = append(m.Published, published{channel: channel, payload: message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func (m *MockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.PingErr)
}

func (m *MockRedis) Close() error {
	m.Closed = true
	return nil
}

func decodeEvents(t *testing.T, m *MockRedis) []Event {
	t.Helper()
	events := make([]Event, 0, len(m.Published))
	for _, p := range m.Published {
		var e Event
		require.NoError(t, json.Unmarshal(p.payload, &e))
		events = append(events, e)
	}
	return events
}

func TestRedisPublisher_PublishesObserverEvents(t *testing.T) {
	mock := &MockRedis{}
	p := newRedisPublisher(mock, "conversion:events", zap.NewNop())
	fixed := time.Date(2024, 12, 19, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	o := p.Observers()
	o.OnLoadingStateChanged(true)
	o.OnLoadingStateChanged(false)
	o.OnResultUpdated("Result: 123.45 USD")
	o.OnErrorOccurred("Invalid response format.")

	require.Len(t, mock.Published, 4)
	for _, msg := range mock.Published {
		assert.Equal(t, "conversion:events", msg.channel)
	}

	events := decodeEvents(t, mock)
	assert.Equal(t, KindLoading, events[0].Kind)
	require.NotNil(t, events[0].Loading)
	assert.True(t, *events[0].Loading)
	require.NotNil(t, events[1].Loading)
	assert.False(t, *events[1].Loading)

	assert.Equal(t, KindResult, events[2].Kind)
	assert.Equal(t, "Result: 123.45 USD", events[2].Text)
	assert.Nil(t, events[2].Loading)

	assert.Equal(t, KindError, events[3].Kind)
	assert.Equal(t, "Invalid response format.", events[3].Message)

	ids := map[string]bool{}
	for _, e := range events {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
		ids[e.ID] = true
		assert.True(t, fixed.Equal(e.At))
	}
	assert.Len(t, ids, 4)
}

func TestRedisPublisher_PublishErrorIsNonFatal(t *testing.T) {
	mock := &MockRedis{PublishErr: errors.New("connection refused")}
	p := newRedisPublisher(mock, "conversion:events", zap.NewNop())

	assert.NotPanics(t, func() {
		p.Observers().OnResultUpdated("Result: 1 USD")
	})
	assert.Empty(t, mock.Published)
}

func TestRedisPublisher_HealthCheckAndClose(t *testing.T) {
	mock := &MockRedis{}
	p := newRedisPublisher(mock, "c", zap.NewNop())

	assert.NoError(t, p.HealthCheck(context.Background()))

	mock.PingErr = errors.New("down")
	err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis health check failed")

	p.Close()
	assert.True(t, mock.Closed)

	var nilPublisher *RedisPublisher
	assert.NotPanics(t, nilPublisher.Close)
}

func TestNewRedisPublisher_RequiresChannel(t *testing.T) {
	_, err := NewRedisPublisher(config.RedisConfig{Addr: "localhost:6379"}, zap.NewNop())
	assert.EqualError(t, err, "redis channel is not configured")
}

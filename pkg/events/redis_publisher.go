package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"currency-converter-live/internal/config"
	"currency-converter-live/internal/converter"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	KindResult  = "result"
	KindLoading = "loading"
	KindError   = "error"
)

// Event - одно событие клиента в канале Redis
type Event struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Loading *bool     `json:"loading,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// publisher - часть *redis.Client, нужная для публикации
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type RedisPublisher struct {
	client  publisher
	channel string
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewRedisPublisher подключается к Redis и проверяет соединение
func NewRedisPublisher(cfg config.RedisConfig, logger *zap.Logger) (*RedisPublisher, error) {
	if cfg.Channel == "" {
		return nil, fmt.Errorf("redis channel is not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("channel", cfg.Channel),
	)

	return newRedisPublisher(client, cfg.Channel, logger), nil
}

func newRedisPublisher(client publisher, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		timeout: 2 * time.Second,
		logger:  logger,
		now:     time.Now,
	}
}

// Observers публикует каждое событие клиента в канал
func (r *RedisPublisher) Observers() converter.Observers {
	return converter.Observers{
		OnResultUpdated: func(text string) {
			r.publish(Event{Kind: KindResult, Text: text})
		},
		OnLoadingStateChanged: func(isLoading bool) {
			r.publish(Event{Kind: KindLoading, Loading: &isLoading})
		},
		OnErrorOccurred: func(message string) {
			r.publish(Event{Kind: KindError, Message: message})
		},
	}
}

// Ошибки публикации только логируются: экран работает и без Redis
func (r *RedisPublisher) publish(e Event) {
	e.ID = uuid.NewString()
	e.At = r.now()

	payload, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("Failed to encode event", zap.String("kind", e.Kind), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("Failed to publish event (non-critical)",
			zap.String("channel", r.channel),
			zap.String("kind", e.Kind),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("Event published",
		zap.String("channel", r.channel),
		zap.String("kind", e.Kind),
		zap.String("id", e.ID),
	)
}

// HealthCheck проверяет доступность Redis
func (r *RedisPublisher) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.logger.Warn("Redis health check failed", zap.Error(err))
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close закрывает подключение к Redis
func (r *RedisPublisher) Close() {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Close(); err != nil {
		r.logger.Warn("Failed to close Redis client", zap.Error(err))
	}
}

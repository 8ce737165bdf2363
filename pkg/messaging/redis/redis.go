package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medipoint/clinic-api/pkg/messaging"
)

// subscribeBuffer absorbs bursts between publisher and consumer; a full
// buffer blocks the receive loop rather than dropping messages.
const subscribeBuffer = 100

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

type RedisBroker struct {
	client *redis.Client
	logger *zerolog.Logger
}

func NewRedisBroker(cfg Config, logger *zerolog.Logger) (messaging.Broker, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = cfg.MaxRetries
	opts.MinRetryBackoff = cfg.RetryBackoff
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisBroker{client: client, logger: logger}, nil
}

// Client exposes the underlying connection for components that need raw
// Redis commands (the per-subject submit lock shares this connection).
func (b *RedisBroker) Client() *redis.Client {
	return b.client
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

// Subscribe delivers raw payloads on the returned channel until ctx is
// cancelled, at which point the channel is closed.
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	out := make(chan []byte, subscribeBuffer)

	go b.receive(ctx, pubsub, channel, out)

	return out, nil
}

func (b *RedisBroker) receive(ctx context.Context, pubsub *redis.PubSub, channel string, out chan<- []byte) {
	defer func() {
		pubsub.Close()
		close(out)
	}()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn().Err(err).Str("channel", channel).Msg("receive failed")
			continue
		}

		select {
		case out <- []byte(msg.Payload):
		case <-ctx.Done():
			return
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("subject lock not acquired")

// SubjectLocker serializes clinic-request submissions per patient so two
// concurrent submits cannot both pass the duplicate check and both persist.
type SubjectLocker interface {
	WithSubjectLock(ctx context.Context, subjectID string, fn func(ctx context.Context) error) error
}

type redisSubjectLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSubjectLocker creates a locker that uses a per-subject Redis key.
func NewRedisSubjectLocker(client *redis.Client, ttl time.Duration) SubjectLocker {
	return &redisSubjectLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSubjectLocker) WithSubjectLock(ctx context.Context, subjectID string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:subject:%s", subjectID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire subject lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// The unlock script only deletes the key when it still holds our token,
// so a lock that expired and was re-acquired by another caller is untouched.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSubjectLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release subject lock: %w", err)
	}
	return nil
}

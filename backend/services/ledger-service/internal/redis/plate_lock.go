package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLocked is returned when another caller holds the lock for the plate.
var ErrLocked = errors.New("plate is locked by another request")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PlateLocker serialises session registration per plate across processes.
type PlateLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPlateLocker returns redis-backed locker. ttl bounds how long a crashed
// holder can block the plate.
func NewPlateLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PlateLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &PlateLocker{client: client, ttl: ttl, logger: logger}
}

func (l *PlateLocker) key(plate string) string {
	return fmt.Sprintf("ledger:lock:plate:%s", plate)
}

// Lock acquires the plate lock with SET NX PX. The returned release function
// deletes the key only if it still holds this caller's token.
func (l *PlateLocker) Lock(ctx context.Context, plate string) (func(), error) {
	token := uuid.NewString()
	key := l.key(plate)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("failed to release plate lock", zap.String("plate", plate), zap.Error(err))
		}
	}
	return release, nil
}

package catalog

import (
	"context"
	stderrors "errors"
	"time"

	"career-matching-workers/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const (
	currentVersionKey = "catalog:current"
	snapshotKeyPrefix = "catalog:snapshot:"
)

// RedisCache keeps the last good snapshot in redis so a restarted worker can
// serve matches before the source answers.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func snapshotKey(version string) string {
	return snapshotKeyPrefix + version
}

// Save stores snap under its version and points the current key at it.
func (c *RedisCache) Save(ctx context.Context, snap *Snapshot) error {
	data, err := snap.MarshalJSON()
	if err != nil {
		return errors.NewCacheOperationFailedError("encode snapshot", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, snapshotKey(snap.Version()), data, c.ttl)
	pipe.Set(ctx, currentVersionKey, snap.Version(), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewCacheOperationFailedError("save snapshot", err)
	}
	return nil
}

// Load returns the cached current snapshot, or nil when nothing is cached.
func (c *RedisCache) Load(ctx context.Context) (*Snapshot, error) {
	version, err := c.rdb.Get(ctx, currentVersionKey).Result()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheOperationFailedError("read current version", err)
	}

	data, err := c.rdb.Get(ctx, snapshotKey(version)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheOperationFailedError("read snapshot", err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, errors.NewCacheOperationFailedError("decode snapshot", err)
	}
	return snap, nil
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChunkTracker remembers which chunk indices arrived for a chunked upload.
// It is informational only: completion never depends on it.
type ChunkTracker interface {
	Record(ctx context.Context, fileID string, chunkIndex int) (int64, error)
	Indices(ctx context.Context, fileID string) ([]int64, error)
	Forget(ctx context.Context, fileID string) error
}

// RedisChunkTracker stores observed indices in one redis set per file id
type RedisChunkTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisChunkTracker creates a tracker. A nil client yields a nil tracker.
func NewRedisChunkTracker(client *redis.Client, prefix string, ttl time.Duration) *RedisChunkTracker {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisChunkTracker{client: client, prefix: prefix, ttl: ttl}
}

func (t *RedisChunkTracker) key(fileID string) string {
	return fmt.Sprintf("%schunks:%s", t.prefix, fileID)
}

// Record adds chunkIndex to the set of fileID and returns how many distinct indices were seen
func (t *RedisChunkTracker) Record(ctx context.Context, fileID string, chunkIndex int) (int64, error) {
	key := t.key(fileID)
	var card *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, chunkIndex)
		pipe.Expire(ctx, key, t.ttl)
		card = pipe.SCard(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("chunk tracker: record %s: %w", fileID, err)
	}
	return card.Val(), nil
}

// Indices returns the recorded indices of fileID in ascending order
func (t *RedisChunkTracker) Indices(ctx context.Context, fileID string) ([]int64, error) {
	members, err := t.client.SMembers(ctx, t.key(fileID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chunk tracker: members %s: %w", fileID, err)
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		v, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Forget drops everything recorded for fileID
func (t *RedisChunkTracker) Forget(ctx context.Context, fileID string) error {
	if err := t.client.Del(ctx, t.key(fileID)).Err(); err != nil {
		return fmt.Errorf("chunk tracker: forget %s: %w", fileID, err)
	}
	return nil
}

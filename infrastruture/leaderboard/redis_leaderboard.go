package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKey    = "rollmaze:leaderboard"
	lockKeyFmt    = "%s:lock:%s"
	unlockTimeout = time.Second
)

var _ i.Leaderboard = &RedisLeaderboard{}

// RedisLeaderboard keeps each player's fastest solve in a Redis sorted set,
// scored in milliseconds.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
	logger i.Logger
}

// NewRedisLeaderboard initializes a RedisLeaderboard stored under key. An empty
// key selects the default.
func NewRedisLeaderboard(client *redis.Client, key string, logger i.Logger) *RedisLeaderboard {
	if key == "" {
		key = defaultKey
	}
	pool := goredis.NewPool(client)
	return &RedisLeaderboard{
		client: client,
		locker: redsync.New(pool),
		key:    key,
		logger: logger,
	}
}

// Record stores solve for the player when it beats the stored best.
func (rl *RedisLeaderboard) Record(ctx context.Context, playerID uuid.UUID, solve time.Duration) (bool, error) {
	member := playerID.String()
	mutex := rl.locker.NewMutex(fmt.Sprintf(lockKeyFmt, rl.key, member))
	if err := mutex.LockContext(ctx); err != nil {
		return false, err
	}
	defer rl.unlock(ctx, mutex)

	score := float64(solve.Milliseconds())
	best, err := rl.client.ZScore(ctx, rl.key, member).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	if err == nil && best <= score {
		return false, nil
	}

	if _, err := rl.client.ZAdd(ctx, rl.key, redis.Z{Score: score, Member: member}).Result(); err != nil {
		return false, err
	}
	return true, nil
}

// unlock releases mutex even when ctx is already done, so an expired request
// does not keep the player's lock until it times out in Redis.
func (rl *RedisLeaderboard) unlock(ctx context.Context, mutex *redsync.Mutex) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()

	if ok, err := mutex.UnlockContext(ctx); err != nil || !ok {
		rl.logger.Error(fmt.Sprintf("releasing leaderboard lock %s: ok=%t err=%v", mutex.Name(), ok, err))
	}
}

// Top returns up to limit entries with the lowest solve times.
func (rl *RedisLeaderboard) Top(ctx context.Context, limit int64) ([]i.LeaderboardEntry, error) {
	if limit <= 0 {
		return []i.LeaderboardEntry{}, nil
	}
	ranked, err := rl.client.ZRangeWithScores(ctx, rl.key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	return entriesFromZ(ranked), nil
}

// entriesFromZ converts sorted set members to entries, skipping members that
// are not player IDs.
func entriesFromZ(ranked []redis.Z) []i.LeaderboardEntry {
	entries := make([]i.LeaderboardEntry, 0, len(ranked))
	for _, z := range ranked {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		entries = append(entries, i.LeaderboardEntry{PlayerID: id, SolveMillis: int64(z.Score)})
	}
	return entries
}

package cache

import (
	"context"
	"core/models"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RankingCache mirrors the leaderboards somewhere readers can get them
// without touching the database.
type RankingCache interface {
	Publish(ctx context.Context, players []models.Player) error
}

// NoopRankingCache is used when no cache is configured.
type NoopRankingCache struct{}

func (NoopRankingCache) Publish(context.Context, []models.Player) error {
	return nil
}

// RedisRankingCache keeps one sorted set per discipline, member = player
// name, score = rating.
type RedisRankingCache struct {
	client *redis.Client
	prefix string
}

func NewRedisRankingCache(client *redis.Client, prefix string) *RedisRankingCache {
	if prefix == "" {
		prefix = "putopadel"
	}
	return &RedisRankingCache{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisRankingCache) Key(matchType models.MatchType) string {
	return fmt.Sprintf("%s:ranking:%s", c.prefix, matchType)
}

// Publish replaces both sorted sets in a single MULTI/EXEC.
func (c *RedisRankingCache) Publish(ctx context.Context, players []models.Player) error {
	singles := make([]redis.Z, 0, len(players))
	doubles := make([]redis.Z, 0, len(players))
	for _, p := range players {
		singles = append(singles, redis.Z{Score: float64(p.EloSingles), Member: p.Name})
		doubles = append(doubles, redis.Z{Score: float64(p.EloDoubles), Member: p.Name})
	}

	pipe := c.client.TxPipeline()

	pipe.Del(ctx, c.Key(models.MatchTypeSingles), c.Key(models.MatchTypeDoubles))
	if len(players) > 0 {
		pipe.ZAdd(ctx, c.Key(models.MatchTypeSingles), singles...)
		pipe.ZAdd(ctx, c.Key(models.MatchTypeDoubles), doubles...)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

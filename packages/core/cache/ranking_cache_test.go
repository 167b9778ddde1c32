package cache

import (
	"context"
	"core/models"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisRankingCacheKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewRedisRankingCache(client, "")
	assert.Equal(t, "putopadel:ranking:singles", c.Key(models.MatchTypeSingles))
	assert.Equal(t, "putopadel:ranking:doubles", c.Key(models.MatchTypeDoubles))

	c = NewRedisRankingCache(client, "club")
	assert.Equal(t, "club:ranking:doubles", c.Key(models.MatchTypeDoubles))
}

func TestNoopRankingCache(t *testing.T) {
	var c RankingCache = NoopRankingCache{}
	assert.NoError(t, c.Publish(context.Background(), []models.Player{{Name: "Robert"}}))
}

func TestRedisRankingCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := NewRedisRankingCache(client, "").Publish(context.Background(), []models.Player{{Name: "Robert", EloSingles: 1016}})
	assert.Error(t, err)
}

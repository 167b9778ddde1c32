package services

import (
	"context"
	"core/models"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

var seedNames = []string{"Robert", "Pepe", "Jorge", "Kike", "Luis", "Joao", "Pepe2", "Oscar", "Alex"}

// newTestDB opens a private in-memory database with the schema and the seed
// roster loaded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Player{}, &models.Match{}, &models.EloHistory{}))

	for _, name := range seedNames {
		require.NoError(t, db.Create(&models.Player{
			Name:       name,
			EloSingles: models.InitialRating,
			EloDoubles: models.InitialRating,
		}).Error)
	}

	return db
}

func ratings(t *testing.T, db *gorm.DB) map[string]models.Player {
	t.Helper()

	players, err := loadRoster(db)
	require.NoError(t, err)

	byName := make(map[string]models.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}
	return byName
}

type recordingCache struct {
	mu        sync.Mutex
	published [][]models.Player
	err       error
}

func (c *recordingCache) Publish(_ context.Context, players []models.Player) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, players)
	return c.err
}

func (c *recordingCache) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

func singles(a, b, sets string) models.MatchRecord {
	return models.MatchRecord{Type: models.MatchTypeSingles, Players: []string{a, b}, Sets: sets}
}

func doubles(a1, a2, b1, b2, sets string) models.MatchRecord {
	return models.MatchRecord{Type: models.MatchTypeDoubles, Players: []string{a1, a2, b1, b2}, Sets: sets}
}

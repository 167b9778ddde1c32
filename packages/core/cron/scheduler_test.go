package cron

import (
	"context"
	"core/models"
	"core/services"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHistoryService(t *testing.T) (*services.HistoryService, *services.MatchService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Player{}, &models.Match{}, &models.EloHistory{}))
	for _, name := range []string{"Robert", "Pepe"} {
		require.NoError(t, db.Create(&models.Player{Name: name, EloSingles: 1000, EloDoubles: 1000}).Error)
	}

	matches := services.NewMatchService(db, 32, nil)
	return services.NewHistoryService(db, matches), matches
}

func TestBackupWritesExport(t *testing.T) {
	history, matches := newHistoryService(t)
	_, err := matches.RegisterMatch(context.Background(), models.MatchRecord{
		Type:    models.MatchTypeSingles,
		Players: []string{"Robert", "Pepe"},
		Sets:    "6-4,6-3",
	})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backups")
	s := NewScheduler(history, dir, "")
	assert.Equal(t, DefaultBackupSchedule, s.schedule)

	path, err := s.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []models.MatchRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Robert", "Pepe"}, records[0].Players)
	assert.Equal(t, "6-4,6-3", records[0].Sets)
}

func TestBackupRequiresDirectory(t *testing.T) {
	history, _ := newHistoryService(t)
	s := NewScheduler(history, "", "")

	_, err := s.Backup(context.Background())
	assert.Error(t, err)

	// nothing to schedule
	require.NoError(t, s.Start())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	history, _ := newHistoryService(t)
	s := NewScheduler(history, t.TempDir(), "every full moon")

	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	history, _ := newHistoryService(t)
	s := NewScheduler(history, t.TempDir(), "")

	require.NoError(t, s.Start())
	s.Stop()
}

package cron

import (
	"context"
	"core/services"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultBackupSchedule runs at minute 0 of every hour (seconds precision).
const DefaultBackupSchedule = "0 0 * * * *"

type Scheduler struct {
	cron           *cron.Cron
	historyService *services.HistoryService
	backupDir      string
	schedule       string
}

func NewScheduler(historyService *services.HistoryService, backupDir, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultBackupSchedule
	}

	// Create cron with seconds precision, logging through zerolog
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.PrintfLogger(&log.Logger)))

	return &Scheduler{
		cron:           c,
		historyService: historyService,
		backupDir:      backupDir,
		schedule:       schedule,
	}
}

// Start schedules the backup job. Without a backup directory nothing is
// scheduled.
func (s *Scheduler) Start() error {
	if s.backupDir == "" {
		log.Info().Msg("BACKUP_DIR not set, history backups disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runBackup); err != nil {
		return fmt.Errorf("scheduling backup job %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Str("dir", s.backupDir).Msg("cron scheduler started")

	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("cron scheduler stopped")
}

// Backup writes the current history export to a timestamped file and returns
// its path.
func (s *Scheduler) Backup(ctx context.Context) (string, error) {
	if s.backupDir == "" {
		return "", fmt.Errorf("no backup directory configured")
	}

	data, err := s.historyService.Export(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("history-%s.json", time.Now().UTC().Format("20060102T150405.000000000Z"))
	path := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func (s *Scheduler) runBackup() {
	path, err := s.Backup(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("history backup failed")
		return
	}
	log.Info().Str("file", path).Msg("history backup written")
}

// RunNow triggers the backup job outside its schedule.
func (s *Scheduler) RunNow() {
	s.runBackup()
}

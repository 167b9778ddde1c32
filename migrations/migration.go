package migrations

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"unique;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type MigrationFunc func(*gorm.DB) error

type MigrationDefinition struct {
	Name string
	Up   MigrationFunc
	Down MigrationFunc
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Name    string
	Applied bool
	Batch   int
}

type Migrator struct {
	db         *gorm.DB
	migrations []MigrationDefinition
}

func NewMigrator(db *gorm.DB) (*Migrator, error) {
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	return &Migrator{
		db:         db,
		migrations: []MigrationDefinition{},
	}, nil
}

func (m *Migrator) AddMigration(migration MigrationDefinition) {
	m.migrations = append(m.migrations, migration)
}

func (m *Migrator) AddMigrations(migrations ...MigrationDefinition) {
	m.migrations = append(m.migrations, migrations...)
}

// Migrate applies every pending migration as one new batch. It returns the
// number of migrations applied.
func (m *Migrator) Migrate() (int, error) {
	batch, err := m.getNextBatch()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, migration := range m.migrations {
		ran, err := m.hasRun(migration.Name)
		if err != nil {
			return applied, err
		}
		if ran {
			continue
		}

		err = m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %s failed: %w", migration.Name, err)
			}

			migrationRecord := Migration{
				Name:  migration.Name,
				Batch: batch,
			}
			if err := tx.Create(&migrationRecord).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		applied++
		log.Info().Str("migration", migration.Name).Int("batch", batch).Msg("migrated")
	}

	return applied, nil
}

// Rollback reverts the last steps batches, newest migration first.
func (m *Migrator) Rollback(steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}

	batch, err := m.getLatestBatch()
	if err != nil {
		return 0, err
	}

	rolledBack := 0
	for i := 0; i < steps && batch > 0; i++ {
		var migrationsToRollback []Migration
		if err := m.db.Where("batch = ?", batch).Order("id DESC").Find(&migrationsToRollback).Error; err != nil {
			return rolledBack, err
		}

		for _, migrationRecord := range migrationsToRollback {
			migration := m.findMigration(migrationRecord.Name)
			if migration == nil {
				return rolledBack, fmt.Errorf("migration definition not found: %s", migrationRecord.Name)
			}

			if migration.Down == nil {
				return rolledBack, fmt.Errorf("rollback not defined for migration: %s", migrationRecord.Name)
			}

			err := m.db.Transaction(func(tx *gorm.DB) error {
				if err := migration.Down(tx); err != nil {
					return fmt.Errorf("rollback failed for %s: %w", migrationRecord.Name, err)
				}
				if err := tx.Delete(&migrationRecord).Error; err != nil {
					return fmt.Errorf("failed to remove migration record %s: %w", migrationRecord.Name, err)
				}
				return nil
			})
			if err != nil {
				return rolledBack, err
			}

			rolledBack++
			log.Info().Str("migration", migrationRecord.Name).Msg("rolled back")
		}

		batch--
	}

	return rolledBack, nil
}

// Status lists the registered migrations in order.
func (m *Migrator) Status() ([]MigrationStatus, error) {
	var records []Migration
	if err := m.db.Find(&records).Error; err != nil {
		return nil, err
	}

	batches := make(map[string]int, len(records))
	for _, r := range records {
		batches[r.Name] = r.Batch
	}

	statuses := make([]MigrationStatus, len(m.migrations))
	for i, migration := range m.migrations {
		batch, ok := batches[migration.Name]
		statuses[i] = MigrationStatus{
			Name:    migration.Name,
			Applied: ok,
			Batch:   batch,
		}
	}
	return statuses, nil
}

func (m *Migrator) hasRun(name string) (bool, error) {
	var count int64
	if err := m.db.Model(&Migration{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Migrator) getNextBatch() (int, error) {
	batch, err := m.getLatestBatch()
	return batch + 1, err
}

func (m *Migrator) getLatestBatch() (int, error) {
	var migration Migration
	err := m.db.Order("batch DESC").First(&migration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return migration.Batch, err
}

func (m *Migrator) findMigration(name string) *MigrationDefinition {
	for _, migration := range m.migrations {
		if migration.Name == name {
			return &migration
		}
	}
	return nil
}

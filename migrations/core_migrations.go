package migrations

import (
	"core/models"

	"gorm.io/gorm"
)

// SeedRoster is the roster the app ships with.
var SeedRoster = []string{"Robert", "Pepe", "Jorge", "Kike", "Luis", "Joao", "Pepe2", "Oscar", "Alex"}

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_06_01_000000_create_players_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Player{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Player{})
			},
		},
		{
			Name: "2025_06_01_000001_create_matches_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Match{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Match{})
			},
		},
		{
			Name: "2025_06_01_000002_create_elo_history_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.EloHistory{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.EloHistory{})
			},
		},
		{
			Name: "2025_06_01_000003_seed_roster",
			Up: func(db *gorm.DB) error {
				for _, name := range SeedRoster {
					player := models.Player{
						Name:       name,
						EloSingles: models.InitialRating,
						EloDoubles: models.InitialRating,
					}
					if err := db.Where(models.Player{Name: name}).FirstOrCreate(&player).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(db *gorm.DB) error {
				return db.Where("name IN ?", SeedRoster).Delete(&models.Player{}).Error
			},
		},
	}
}

// NewCoreMigrator returns a migrator loaded with every core migration.
func NewCoreMigrator(db *gorm.DB) (*Migrator, error) {
	m, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	m.AddMigrations(GetCoreMigrations()...)
	return m, nil
}

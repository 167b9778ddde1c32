package main

import (
	"fmt"
	"os"

	"putopadel-api/config"
	"putopadel-api/migrations"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Migrate struct {
	} `cmd:"" help:"Run pending migrations."`

	Rollback struct {
		Steps int `arg:"" optional:"" default:"1" help:"Number of batches to roll back."`
	} `cmd:"" help:"Roll back the latest migration batches."`

	Status struct {
	} `cmd:"" help:"Show migration status."`
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	ctx := kong.Parse(&CLI,
		kong.Name("migrate"),
		kong.Description("Manage the PutoPadel database schema"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	config.SetupLogger(cfg.LogLevel)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	migrator, err := migrations.NewCoreMigrator(db)
	if err != nil {
		log.Fatal().Err(err).Msg("migrator setup failed")
	}

	switch ctx.Command() {
	case "migrate":
		applied, err := migrator.Migrate()
		if err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Int("applied", applied).Msg("migration completed")
	case "rollback", "rollback <steps>":
		rolledBack, err := migrator.Rollback(CLI.Rollback.Steps)
		if err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Int("rolled_back", rolledBack).Msg("rollback completed")
	case "status":
		statuses, err := migrator.Status()
		if err != nil {
			log.Fatal().Err(err).Msg("could not read migration status")
		}
		fmt.Println("Batch | Name")
		fmt.Println("------|-----")
		for _, s := range statuses {
			batch := "  -  "
			if s.Applied {
				batch = fmt.Sprintf("%5d", s.Batch)
			}
			fmt.Printf("%s | %s\n", batch, s.Name)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"core/services"
	"putopadel-api/config"
	"putopadel-api/fixtures"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Seed int64 `help:"Random seed (default: current time)."`

	Generate struct {
		Matches int `help:"Number of matches to generate." default:"50"`
	} `cmd:"" help:"Generate random matches between roster players."`

	Clear struct {
	} `cmd:"" help:"Remove all matches and reset every rating."`

	Regenerate struct {
		Matches int `help:"Number of matches to generate." default:"50"`
	} `cmd:"" help:"Clear and generate again."`
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	ctx := kong.Parse(&CLI,
		kong.Name("fixtures"),
		kong.Description("Fill the PutoPadel database with test data"),
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

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	matchService := services.NewMatchService(db, cfg.KFactor, nil)
	fixtureManager := fixtures.NewFixtures(db, matchService, seed)
	background := context.Background()

	switch ctx.Command() {
	case "generate":
		if _, err := fixtureManager.GenerateMatches(background, CLI.Generate.Matches); err != nil {
			log.Fatal().Err(err).Msg("failed to generate fixtures")
		}
	case "clear":
		if err := fixtureManager.ClearAllData(background); err != nil {
			log.Fatal().Err(err).Msg("failed to clear fixtures")
		}
	case "regenerate":
		if err := fixtureManager.ClearAllData(background); err != nil {
			log.Fatal().Err(err).Msg("failed to clear fixtures")
		}
		if _, err := fixtureManager.GenerateMatches(background, CLI.Regenerate.Matches); err != nil {
			log.Fatal().Err(err).Msg("failed to generate fixtures")
		}
	}
}

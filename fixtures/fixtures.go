package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"core/models"
	"core/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Fixtures struct {
	db           *gorm.DB
	matchService *services.MatchService
	rng          *rand.Rand
}

func NewFixtures(db *gorm.DB, matchService *services.MatchService, seed int64) *Fixtures {
	return &Fixtures{
		db:           db,
		matchService: matchService,
		rng:          rand.New(rand.NewSource(seed)), // #nosec G404
	}
}

// GenerateMatches registers count random singles and doubles matches between
// roster players, rating each one as it goes.
func (f *Fixtures) GenerateMatches(ctx context.Context, count int) (int, error) {
	var roster []models.Player
	if err := f.db.WithContext(ctx).Order("id ASC").Find(&roster).Error; err != nil {
		return 0, err
	}
	if len(roster) < 4 {
		return 0, fmt.Errorf("need at least 4 players to generate matches, have %d", len(roster))
	}

	for i := 0; i < count; i++ {
		record := f.randomMatch(roster)
		if _, err := f.matchService.RegisterMatch(ctx, record); err != nil {
			return i, fmt.Errorf("failed to register match %d: %w", i, err)
		}
	}

	log.Info().Int("matches", count).Msg("fixtures generated")
	return count, nil
}

func (f *Fixtures) randomMatch(roster []models.Player) models.MatchRecord {
	matchType := models.MatchTypeSingles
	size := 2
	if f.rng.Float32() < 0.6 {
		matchType = models.MatchTypeDoubles
		size = 4
	}

	picked := f.rng.Perm(len(roster))[:size]
	players := make([]string, size)
	for i, idx := range picked {
		players[i] = roster[idx].Name
	}

	return models.MatchRecord{
		Type:    matchType,
		Players: players,
		Sets:    f.randomSets(),
	}
}

// randomSets plays a best-of-three with realistic padel set scores.
func (f *Fixtures) randomSets() string {
	var sets []string
	var wonA, wonB int
	for wonA < 2 && wonB < 2 {
		winner, loser := 6, f.rng.Intn(5)
		switch f.rng.Intn(6) {
		case 0:
			winner, loser = 7, 5
		case 1:
			winner, loser = 7, 6
		}

		if f.rng.Intn(2) == 0 {
			sets = append(sets, strconv.Itoa(winner)+"-"+strconv.Itoa(loser))
			wonA++
		} else {
			sets = append(sets, strconv.Itoa(loser)+"-"+strconv.Itoa(winner))
			wonB++
		}
	}
	return strings.Join(sets, ",")
}

// ClearAllData removes every match and rating change and puts the roster back
// at the initial rating.
func (f *Fixtures) ClearAllData(ctx context.Context) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&models.EloHistory{},
			&models.Match{},
		}

		for _, table := range tables {
			if err := tx.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear table %T: %w", table, err)
			}
		}

		if err := tx.Model(&models.Player{}).Where("1 = 1").Updates(map[string]interface{}{
			"elo_singles": models.InitialRating,
			"elo_doubles": models.InitialRating,
		}).Error; err != nil {
			return fmt.Errorf("failed to reset ratings: %w", err)
		}

		log.Info().Msg("fixture data cleared")
		return nil
	})
}

package services

import (
	"context"
	"core/cache"
	"core/models"
	"core/utils"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchService struct {
	db       *gorm.DB
	kFactor  float64
	rankings cache.RankingCache
}

func NewMatchService(db *gorm.DB, kFactor float64, rankings cache.RankingCache) *MatchService {
	if kFactor <= 0 {
		kFactor = utils.DefaultKFactor
	}
	if rankings == nil {
		rankings = cache.NoopRankingCache{}
	}
	return &MatchService{
		db:       db,
		kFactor:  kFactor,
		rankings: rankings,
	}
}

// preparedMatch is a record that passed validation and is ready to be rated.
type preparedMatch struct {
	input models.MatchInput
	sets  []models.SetScore
}

func prepareMatch(record models.MatchRecord) (preparedMatch, error) {
	input, err := record.Input()
	if err != nil {
		return preparedMatch{}, err
	}

	sets, err := utils.ParseSetScores(record.Sets)
	if err != nil {
		return preparedMatch{}, err
	}

	if _, err := utils.AggregateSetScores(sets); err != nil {
		return preparedMatch{}, err
	}

	return preparedMatch{input: input, sets: sets}, nil
}

// GetMatches returns the whole history in order.
func (s *MatchService) GetMatches(ctx context.Context) ([]models.HistoryEntry, error) {
	var matches []models.Match

	result := preloadParticipants(s.db.WithContext(ctx)).
		Order("id ASC").
		Find(&matches)

	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]models.HistoryEntry, len(matches))
	for i, m := range matches {
		entries[i] = models.HistoryEntry{Index: i, Match: m}
	}

	return entries, nil
}

func (s *MatchService) GetMatchAt(ctx context.Context, index int) (*models.Match, error) {
	match, err := matchAt(s.db.WithContext(ctx), index)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, match.ID)
}

func (s *MatchService) GetRecentMatches(ctx context.Context, limit int) ([]models.Match, error) {
	var matches []models.Match

	result := preloadParticipants(s.db.WithContext(ctx)).
		Order("id DESC").
		Limit(limit).
		Find(&matches)

	if result.Error != nil {
		return nil, result.Error
	}

	return matches, nil
}

// RegisterMatch rates a new match and appends it to the history. Nothing is
// written if the match is rejected.
func (s *MatchService) RegisterMatch(ctx context.Context, record models.MatchRecord) (*models.Match, error) {
	prepared, err := prepareMatch(record)
	if err != nil {
		return nil, err
	}

	var match models.Match
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.applyInTransaction(tx, &match, prepared, time.Now())
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("match", match.ID).
		Str("type", string(match.Type)).
		Strs("players", prepared.input.Participants()).
		Str("sets", match.Sets).
		Msg("match registered")

	s.publishRankings(ctx)

	return s.reload(ctx, match.ID)
}

// EditMatch overwrites the record at index and rates the new result on top of
// the current ratings. The previous result is not reverted; use
// RecomputeRatings to rebuild ratings from the edited history.
func (s *MatchService) EditMatch(ctx context.Context, index int, record models.MatchRecord) (*models.Match, error) {
	prepared, err := prepareMatch(record)
	if err != nil {
		return nil, err
	}

	var match *models.Match
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := matchAt(tx, index)
		if err != nil {
			return err
		}
		match = existing
		return s.applyInTransaction(tx, match, prepared, time.Now())
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("index", index).
		Uint("match", match.ID).
		Str("sets", match.Sets).
		Msg("match updated")

	s.publishRankings(ctx)

	return s.reload(ctx, match.ID)
}

// DeleteMatch removes the record at index. Ratings are left as they are.
func (s *MatchService) DeleteMatch(ctx context.Context, index int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := matchAt(tx, index)
		if err != nil {
			return err
		}
		return tx.Delete(match).Error
	})
	if err != nil {
		return err
	}

	log.Info().Int("index", index).Msg("match deleted")
	return nil
}

// RecomputeRatings resets every player to the initial rating and replays the
// whole history in order, rebuilding the Elo history as it goes.
func (s *MatchService) RecomputeRatings(ctx context.Context) ([]models.Player, error) {
	var roster []models.Player
	var replayed int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		roster, err = lockRoster(tx)
		if err != nil {
			return err
		}
		for i := range roster {
			roster[i].EloSingles = models.InitialRating
			roster[i].EloDoubles = models.InitialRating
		}

		if err := tx.Where("1 = 1").Delete(&models.EloHistory{}).Error; err != nil {
			return err
		}

		var matches []models.Match
		if err := preloadParticipants(tx).Order("id ASC").Find(&matches).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, match := range matches {
			prepared, err := prepareMatch(match.Record())
			if err != nil {
				return fmt.Errorf("match %d: %w", match.ID, err)
			}

			updated, err := utils.ApplyMatch(roster, prepared.input, prepared.sets, s.kFactor)
			if err != nil {
				return fmt.Errorf("match %d: %w", match.ID, err)
			}

			history := ratingChanges(roster, updated, match.ID, prepared.input, now)
			if err := tx.Omit(clause.Associations).Create(&history).Error; err != nil {
				return err
			}

			roster = updated
			replayed++
		}

		for _, p := range roster {
			if err := tx.Model(&models.Player{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
				"elo_singles": p.EloSingles,
				"elo_doubles": p.EloDoubles,
			}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("matches", replayed).Int("players", len(roster)).Msg("ratings recomputed")

	s.publishRankings(ctx)

	return roster, nil
}

// applyInTransaction rates prepared against the current roster and writes the
// match (created when match.ID is zero, overwritten otherwise), the new
// ratings and the Elo history rows.
func (s *MatchService) applyInTransaction(tx *gorm.DB, match *models.Match, prepared preparedMatch, now time.Time) error {
	roster, err := lockRoster(tx)
	if err != nil {
		return err
	}

	updated, err := utils.ApplyMatch(roster, prepared.input, prepared.sets, s.kFactor)
	if err != nil {
		return err
	}

	ids := make(map[string]uint, len(roster))
	for _, p := range roster {
		ids[p.Name] = p.ID
	}

	if err := fillMatch(match, prepared, ids); err != nil {
		return err
	}

	if match.ID == 0 {
		match.CreatedAt = now
		if err := tx.Omit(clause.Associations).Create(match).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Omit(clause.Associations).Save(match).Error; err != nil {
			return err
		}
	}

	history := ratingChanges(roster, updated, match.ID, prepared.input, now)
	for _, h := range history {
		column := "elo_singles"
		if h.MatchType == models.MatchTypeDoubles {
			column = "elo_doubles"
		}
		if err := tx.Model(&models.Player{}).Where("id = ?", h.PlayerID).Update(column, h.EloAfter).Error; err != nil {
			return err
		}
	}

	if err := tx.Omit(clause.Associations).Create(&history).Error; err != nil {
		return err
	}

	return nil
}

// fillMatch copies a prepared match onto the record, resolving names to ids.
func fillMatch(match *models.Match, prepared preparedMatch, ids map[string]uint) error {
	names := prepared.input.Participants()
	resolved := make([]uint, len(names))
	for i, name := range names {
		id, ok := ids[name]
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, name)
		}
		resolved[i] = id
	}

	gamesA, gamesB := utils.SumGames(prepared.sets)
	match.Type = prepared.input.Type()
	match.Sets = utils.FormatSetScores(prepared.sets)
	match.GamesA = gamesA
	match.GamesB = gamesB
	match.PlayerA2ID = nil
	match.PlayerB2ID = nil

	if match.Type == models.MatchTypeDoubles {
		match.PlayerA1ID, match.PlayerA2ID = resolved[0], &resolved[1]
		match.PlayerB1ID, match.PlayerB2ID = resolved[2], &resolved[3]
	} else {
		match.PlayerA1ID = resolved[0]
		match.PlayerB1ID = resolved[1]
	}

	return nil
}

// ratingChanges diffs the participants' ratings before and after a match.
func ratingChanges(before, after []models.Player, matchID uint, input models.MatchInput, now time.Time) []models.EloHistory {
	participants := make(map[string]bool, 4)
	for _, name := range input.Participants() {
		participants[name] = true
	}

	matchType := input.Type()
	history := make([]models.EloHistory, 0, len(participants))
	for i := range before {
		if !participants[before[i].Name] {
			continue
		}
		eloBefore := before[i].Rating(matchType)
		eloAfter := after[i].Rating(matchType)
		history = append(history, models.EloHistory{
			PlayerID:  before[i].ID,
			MatchID:   matchID,
			MatchType: matchType,
			EloBefore: eloBefore,
			EloAfter:  eloAfter,
			EloChange: eloAfter - eloBefore,
			CreatedAt: now,
		})
	}
	return history
}

// matchAt finds the match at a 0-based history position.
func matchAt(db *gorm.DB, index int) (*models.Match, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: index %d", models.ErrMatchNotFound, index)
	}

	var matches []models.Match
	if err := db.Order("id ASC").Offset(index).Limit(1).Find(&matches).Error; err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: index %d", models.ErrMatchNotFound, index)
	}

	return &matches[0], nil
}

func (s *MatchService) reload(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	if err := preloadParticipants(s.db.WithContext(ctx)).First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// publishRankings refreshes the ranking cache. A cache failure is logged and
// never fails the request that triggered it.
func (s *MatchService) publishRankings(ctx context.Context) {
	roster, err := loadRoster(s.db.WithContext(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("could not load roster for ranking cache")
		return
	}

	if err := s.rankings.Publish(ctx, roster); err != nil {
		log.Warn().Err(err).Msg("could not publish rankings")
	}
}

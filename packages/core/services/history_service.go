package services

import (
	"bytes"
	"context"
	"core/models"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryService moves the match history in and out as a JSON document: an
// array of {"type", "players", "sets"} records in history order.
type HistoryService struct {
	db           *gorm.DB
	matchService *MatchService
}

func NewHistoryService(db *gorm.DB, matchService *MatchService) *HistoryService {
	return &HistoryService{
		db:           db,
		matchService: matchService,
	}
}

func (s *HistoryService) Records(ctx context.Context) ([]models.MatchRecord, error) {
	entries, err := s.matchService.GetMatches(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.MatchRecord, len(entries))
	for i, e := range entries {
		records[i] = e.Match.Record()
	}
	return records, nil
}

// Export encodes the current history.
func (s *HistoryService) Export(ctx context.Context) ([]byte, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(records, "", "  ")
}

// DecodeHistory parses an import document without touching the store.
func DecodeHistory(data []byte) ([]models.MatchRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of matches", models.ErrImportFormat)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrImportFormat, err)
	}

	records := make([]models.MatchRecord, 0, len(raw))
	for i, item := range raw {
		var wire struct {
			Type    *string  `json:"type"`
			Players []string `json:"players"`
			Sets    *string  `json:"sets"`
		}
		if err := json.Unmarshal(item, &wire); err != nil {
			return nil, fmt.Errorf("%w: match %d: %v", models.ErrImportFormat, i, err)
		}
		if wire.Type == nil || wire.Sets == nil || wire.Players == nil {
			return nil, fmt.Errorf("%w: match %d: type, players and sets are required", models.ErrImportFormat, i)
		}

		matchType, err := models.ParseMatchType(*wire.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: match %d: %w", models.ErrImportFormat, i, err)
		}

		records = append(records, models.MatchRecord{
			Type:    matchType,
			Players: wire.Players,
			Sets:    *wire.Sets,
		})
	}

	return records, nil
}

// Import replaces the whole history with the document's matches. Every record
// is validated against the roster first; on any error the existing history is
// left untouched. The Elo history of the replaced matches is dropped with
// them. Ratings only change when recompute is set, which also rebuilds the
// Elo history.
func (s *HistoryService) Import(ctx context.Context, data []byte, recompute bool) (int, error) {
	records, err := DecodeHistory(data)
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roster, err := lockRoster(tx)
		if err != nil {
			return err
		}
		ids := make(map[string]uint, len(roster))
		for _, p := range roster {
			ids[p.Name] = p.ID
		}

		matches := make([]models.Match, 0, len(records))
		for i, record := range records {
			prepared, err := prepareMatch(record)
			if err != nil {
				return fmt.Errorf("%w: match %d: %w", models.ErrImportFormat, i, err)
			}

			var match models.Match
			if err := fillMatch(&match, prepared, ids); err != nil {
				return fmt.Errorf("%w: match %d: %w", models.ErrImportFormat, i, err)
			}
			matches = append(matches, match)
		}

		if err := tx.Where("1 = 1").Delete(&models.Match{}).Error; err != nil {
			return err
		}
		// rating changes belonged to the replaced matches
		if err := tx.Where("1 = 1").Delete(&models.EloHistory{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range matches {
			matches[i].CreatedAt = now
			if err := tx.Omit(clause.Associations).Create(&matches[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrImportFormat) {
			log.Error().Err(err).Msg("history import failed")
		}
		return 0, err
	}

	log.Info().Int("matches", len(records)).Bool("recompute", recompute).Msg("history imported")

	if recompute {
		if _, err := s.matchService.RecomputeRatings(ctx); err != nil {
			return len(records), err
		}
	}

	return len(records), nil
}

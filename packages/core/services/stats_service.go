package services

import (
	"context"
	"core/models"
	"time"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Where("type = ?", models.MatchTypeSingles).Count(&stats.SinglesMatches).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Match{}).Where("type = ?", models.MatchTypeDoubles).Count(&stats.DoublesMatches).Error; err != nil {
		return nil, err
	}

	// Calculate date ranges
	now := time.Now()
	last7DaysStart := now.AddDate(0, 0, -7)
	previous7DaysStart := now.AddDate(0, 0, -14)

	if err := db.Model(&models.Match{}).
		Where("created_at >= ?", last7DaysStart).
		Count(&stats.MatchesLast7Days).Error; err != nil {
		return nil, err
	}

	// 7-14 days ago
	if err := db.Model(&models.Match{}).
		Where("created_at >= ? AND created_at < ?", previous7DaysStart, last7DaysStart).
		Count(&stats.MatchesPrevious7Days).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

package services

import (
	"context"
	"core/models"

	"gorm.io/gorm"
)

type EloHistoryService struct {
	db *gorm.DB
}

func NewEloHistoryService(db *gorm.DB) *EloHistoryService {
	return &EloHistoryService{
		db: db,
	}
}

func (s *EloHistoryService) GetRecentEloChanges(ctx context.Context, limit int) ([]models.EloHistory, error) {
	var eloHistory []models.EloHistory

	result := s.db.WithContext(ctx).Order("id DESC").
		Limit(limit).
		Preload("Player").
		Find(&eloHistory)

	if result.Error != nil {
		return nil, result.Error
	}

	return eloHistory, nil
}

package services

import (
	"context"
	"core/models"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination bounds. Anything larger is clamped.
const (
	MaxPage     = 100000
	MaxPageSize = 100
)

// pageOffset clamps page and pageSize and returns them with the row offset.
func pageOffset(page, pageSize int) (int, int, int) {
	page = min(max(page, 1), MaxPage)
	pageSize = min(max(pageSize, 1), MaxPageSize)
	return page, pageSize, (page - 1) * pageSize
}

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{
		db: db,
	}
}

func (s *PlayerService) GetPlayerByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrPlayerNotFound
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) GetPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	var player models.Player

	result := s.db.WithContext(ctx).Where("name = ?", name).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownPlayer, name)
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, models.ErrInvalidPlayerName
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Player{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrPlayerExists, name)
	}

	player := &models.Player{
		Name:       name,
		EloSingles: models.InitialRating,
		EloDoubles: models.InitialRating,
	}

	result := s.db.WithContext(ctx).Create(player)
	if result.Error != nil {
		return nil, result.Error
	}

	return player, nil
}

// GetRoster returns every player in roster order.
func (s *PlayerService) GetRoster(ctx context.Context) ([]models.Player, error) {
	return loadRoster(s.db.WithContext(ctx))
}

// GetRanking returns the leaderboard for one discipline, best first. Equal
// ratings keep roster order.
func (s *PlayerService) GetRanking(ctx context.Context, matchType models.MatchType) ([]models.RankingEntry, error) {
	players, err := loadRoster(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating(matchType) > players[j].Rating(matchType)
	})

	ranking := make([]models.RankingEntry, len(players))
	for i, p := range players {
		ranking[i] = models.RankingEntry{
			Position: i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Rating:   p.Rating(matchType),
		}
	}

	return ranking, nil
}

func (s *PlayerService) GetEloHistoryByPlayerID(ctx context.Context, playerID uint) ([]models.EloHistory, error) {
	var eloHistory []models.EloHistory

	result := s.db.WithContext(ctx).Where("player_id = ?", playerID).
		Order("id ASC").
		Find(&eloHistory)

	if result.Error != nil {
		return nil, result.Error
	}

	return eloHistory, nil
}

func (s *PlayerService) GetPlayerMatches(ctx context.Context, playerID uint, matchType string, page int, pageSize int) (*models.PaginatedMatchResponse, error) {
	var matches []models.Match
	var total int64

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("player_a1_id = ? OR player_a2_id = ? OR player_b1_id = ? OR player_b2_id = ?", playerID, playerID, playerID, playerID)
		switch matchType {
		case string(models.MatchTypeSingles), string(models.MatchTypeDoubles):
			db = db.Where("type = ?", matchType)
		}
		return db
	}

	// Count total records
	if err := s.db.WithContext(ctx).Model(&models.Match{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize, offset := pageOffset(page, pageSize)

	query := preloadParticipants(s.db.WithContext(ctx)).
		Scopes(filter).
		Order("id DESC").
		Offset(offset).
		Limit(pageSize)

	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedMatchResponse{
		Data:       matches,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *PlayerService) GetAllPlayers(ctx context.Context, orderBy string, direction string, page int, pageSize int) (*models.PaginatedPlayersResponse, error) {
	var players []models.Player
	var total int64

	// Validate order by field
	allowedOrderBy := map[string]bool{
		"created_at":  true,
		"elo_singles": true,
		"elo_doubles": true,
		"name":        true,
	}

	if !allowedOrderBy[orderBy] {
		orderBy = "created_at"
	}

	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	if err := s.db.WithContext(ctx).Model(&models.Player{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize, offset := pageOffset(page, pageSize)

	orderClause := orderBy + " " + direction + ", id ASC"

	if err := s.db.WithContext(ctx).Order(orderClause).
		Offset(offset).
		Limit(pageSize).
		Find(&players).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedPlayersResponse{
		Data:       players,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func loadRoster(db *gorm.DB) ([]models.Player, error) {
	var players []models.Player
	if err := db.Order("id ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// lockRoster loads the roster inside a mutating transaction. The rows stay
// locked until the transaction ends so concurrent matches sharing a player
// are rated one after the other.
func lockRoster(tx *gorm.DB) ([]models.Player, error) {
	return loadRoster(tx.Scopes(forUpdate))
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func preloadParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("PlayerA1").Preload("PlayerA2").Preload("PlayerB1").Preload("PlayerB2")
}

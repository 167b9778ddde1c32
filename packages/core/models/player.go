package models

import (
	"time"
)

// InitialRating is the singles and doubles rating every player starts with.
const InitialRating = 1000

type Player struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	EloSingles int       `gorm:"not null;default:1000" json:"elo_singles"`
	EloDoubles int       `gorm:"not null;default:1000" json:"elo_doubles"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	EloHistory []EloHistory `gorm:"foreignKey:PlayerID" json:"elo_history,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

// Rating returns the player's rating for the given discipline.
func (p Player) Rating(matchType MatchType) int {
	if matchType == MatchTypeDoubles {
		return p.EloDoubles
	}
	return p.EloSingles
}

type PaginatedPlayersResponse struct {
	Data       []Player `json:"data"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

type CreatePlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// RankingEntry is one line of a leaderboard.
type RankingEntry struct {
	Position int    `json:"position"`
	PlayerID uint   `json:"player_id"`
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
}

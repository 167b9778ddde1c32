package models

import (
	"time"

	"gorm.io/gorm"
)

// Match is one entry of the match history. Team A is PlayerA1 (+ PlayerA2 in
// doubles), team B is PlayerB1 (+ PlayerB2).
type Match struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type       MatchType      `gorm:"size:10;not null" json:"type"`
	PlayerA1ID uint           `gorm:"not null;index" json:"player_a1_id"`
	PlayerA2ID *uint          `gorm:"index" json:"player_a2_id,omitempty"`
	PlayerB1ID uint           `gorm:"not null;index" json:"player_b1_id"`
	PlayerB2ID *uint          `gorm:"index" json:"player_b2_id,omitempty"`
	Sets       string         `gorm:"size:255;not null" json:"sets"`
	GamesA     int            `gorm:"not null" json:"games_a"`
	GamesB     int            `gorm:"not null" json:"games_b"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	PlayerA1 Player  `gorm:"foreignKey:PlayerA1ID;references:ID" json:"player_a1,omitempty"`
	PlayerA2 *Player `gorm:"foreignKey:PlayerA2ID;references:ID" json:"player_a2,omitempty"`
	PlayerB1 Player  `gorm:"foreignKey:PlayerB1ID;references:ID" json:"player_b1,omitempty"`
	PlayerB2 *Player `gorm:"foreignKey:PlayerB2ID;references:ID" json:"player_b2,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// ParticipantNames returns the names in wire order: team A first, then team B.
// Relationships must be preloaded.
func (m Match) ParticipantNames() []string {
	if m.Type == MatchTypeDoubles && m.PlayerA2 != nil && m.PlayerB2 != nil {
		return []string{m.PlayerA1.Name, m.PlayerA2.Name, m.PlayerB1.Name, m.PlayerB2.Name}
	}
	return []string{m.PlayerA1.Name, m.PlayerB1.Name}
}

// Record converts a preloaded match into its wire form.
func (m Match) Record() MatchRecord {
	return MatchRecord{
		Type:    m.Type,
		Players: m.ParticipantNames(),
		Sets:    m.Sets,
	}
}

// HistoryEntry is a match together with its position in the history.
type HistoryEntry struct {
	Index int   `json:"index"`
	Match Match `json:"match"`
}

type PaginatedMatchResponse struct {
	Data       []Match `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

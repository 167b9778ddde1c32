package models

import (
	"time"
)

type EloHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID  uint      `gorm:"not null;index" json:"player_id"`
	MatchID   uint      `gorm:"not null;index" json:"match_id"`
	MatchType MatchType `gorm:"size:10;not null" json:"match_type"`
	EloBefore int       `gorm:"not null" json:"elo_before"`
	EloAfter  int       `gorm:"not null" json:"elo_after"`
	EloChange int       `gorm:"not null" json:"elo_change"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Player Player `gorm:"foreignKey:PlayerID;references:ID" json:"player,omitempty"`
}

func (EloHistory) TableName() string {
	return "elo_history"
}

package models

import "time"

type Game struct {
	ID         string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	MinPlayers int       `gorm:"not null;default:1" json:"min_players"`
	MaxPlayers int       `gorm:"not null;default:4" json:"max_players"`
	Copies     int       `gorm:"not null;default:1" json:"copies"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

package models

import "time"

type Promotion struct {
	ID             string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	FirstHourPrice float64    `gorm:"type:decimal(10,2);not null" json:"first_hour_price"`
	ExtraHourPrice float64    `gorm:"type:decimal(10,2);not null" json:"extra_hour_price"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

// EligibleAt -> promo berlaku jika flag aktif dan "now" berada di dalam window
func (p *Promotion) EligibleAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

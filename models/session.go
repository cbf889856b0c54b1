package models

import "time"

// Status sesi: active adalah status awal, completed/cancelled terminal.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

type Session struct {
	ID            string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	CustomerID    string     `gorm:"type:varchar(64);index" json:"customer_id"`
	CustomerName  string     `gorm:"type:varchar(255)" json:"customer_name"`
	TableID       uint       `gorm:"not null;index" json:"table_id"`
	TableNumber   int        `gorm:"not null" json:"table_number"`
	PartySize     int        `gorm:"not null" json:"party_size"`
	MaleCount     *int       `json:"male_count,omitempty"`
	FemaleCount   *int       `json:"female_count,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	StartTime     time.Time  `gorm:"not null" json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	PromotionID   *string    `gorm:"type:varchar(64)" json:"promotion_id,omitempty"`
	PromotionName *string    `gorm:"type:varchar(255)" json:"promotion_name,omitempty"`
	Hours         float64    `gorm:"not null;default:0" json:"hours"`
	TotalCost     float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_cost"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// IsTerminal -> sesi yang sudah completed/cancelled tidak boleh berubah lagi
func (s *Session) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

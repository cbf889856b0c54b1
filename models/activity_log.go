package models

import "time"

// ActivityLog adalah audit trail per terminal. Entri hanya dibuat oleh
// operasi lokal, tidak pernah oleh merge event dari terminal lain.
type ActivityLog struct {
	ID         string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	Detail     string    `gorm:"type:text" json:"detail"`
	OperatorID uint      `json:"operator_id"`
	SessionID  *string   `gorm:"type:varchar(64)" json:"session_id,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

package models

import "time"

// Metode pembayaran
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
	PaymentMixed  = "mixed"
)

// Payment represents money collected when a session is completed.
// A payment never rewrites the session's stored cost.
type Payment struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	SessionID    string    `gorm:"type:varchar(64);not null;index" json:"session_id"`
	Amount       float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method       string    `gorm:"type:varchar(10);not null;default:'cash'" json:"method"`
	CashAmount   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"cash_amount"`
	CardAmount   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"card_amount"`
	OnlineAmount float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"online_amount"`
	Status       string    `gorm:"type:varchar(20);not null;default:'success'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

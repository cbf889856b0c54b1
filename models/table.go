package models

import "time"

// Status meja
const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableMaintenance = "maintenance"
)

type Table struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TableNumber      int        `gorm:"unique;not null" json:"table_number"`
	Status           string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Capacity         int        `gorm:"not null" json:"capacity"`
	TableType        string     `gorm:"type:varchar(20);not null;default:'regular'" json:"table_type"`
	CurrentSessionID *string    `gorm:"type:varchar(64);index" json:"current_session_id,omitempty"`
	CustomerName     *string    `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	OccupiedSince    *time.Time `json:"occupied_since,omitempty"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// IsOccupied -> true jika meja sedang dipakai oleh sesi aktif
func (t *Table) IsOccupied() bool {
	return t.Status == TableOccupied && t.CurrentSessionID != nil
}

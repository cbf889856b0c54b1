package models

import "time"

type Reservation struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CustomerName string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	TableNumber  int       `gorm:"not null" json:"table_number"`
	PartySize    int       `gorm:"not null" json:"party_size"`
	ReservedFor  time.Time `gorm:"not null" json:"reserved_for"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

package models

import "time"

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	VenueID     uint        `gorm:"not null;index" json:"venue_id"`
	TableNumber string      `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	// Version is bumped on every status write and checked before the next one.
	Version   uint      `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableWithGuest -> table plus the guest currently seated at it (computed on read, never stored)
type TableWithGuest struct {
	Table
	ActiveGuest *Guest `json:"active_guest"`
}

package models

import (
	"time"
)

const (
	EntityGuest = "guest"
	EntityTable = "table"
)

// StatusChange is written in the same transaction as the status write it describes.
// The change monitor relays unprocessed rows to the floor hub and the event bus.
type StatusChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VenueID    uint      `gorm:"not null;index" json:"venue_id"`
	Entity     string    `gorm:"type:varchar(10);not null;index:idx_change_record" json:"entity"`
	RecordID   string    `gorm:"type:varchar(36);not null;index:idx_change_record" json:"record_id"`
	FromStatus string    `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	Reason     string    `gorm:"type:varchar(255)" json:"reason,omitempty"`
	ChangedAt  time.Time `gorm:"not null" json:"changed_at"`
	Processed  bool      `gorm:"default:false;index:idx_processed" json:"-"`
}

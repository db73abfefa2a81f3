package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Guest struct {
	ID                 string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	VenueID            uint        `gorm:"not null;index:idx_guest_venue_status" json:"venue_id"`
	TableID            *uint       `gorm:"index" json:"table_id"`
	Name               string      `gorm:"type:varchar(255);not null" json:"name"`
	PartySize          int         `gorm:"not null" json:"party_size"`
	Status             GuestStatus `gorm:"type:varchar(20);not null;default:'WAITING';index:idx_guest_venue_status" json:"status"`
	CancellationReason *string     `gorm:"type:varchar(255)" json:"cancellation_reason"`
	CreatedAt          time.Time   `gorm:"not null;index" json:"created_at"`
	AcknowledgedAt     *time.Time  `json:"acknowledged_at"`
	SeatedAt           *time.Time  `gorm:"index" json:"seated_at"`
	LeftAt             *time.Time  `json:"left_at"`
	UpdatedAt          time.Time   `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns a fresh uuid when the caller did not set one.
func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// SeatedAtTable reports whether the guest currently occupies tableID.
func (g *Guest) SeatedAtTable(tableID uint) bool {
	return g.Status == GuestSeated && g.TableID != nil && *g.TableID == tableID
}

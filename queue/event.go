package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/waitlist-app/models"
)

// Exchange is the durable topic exchange status events are published to.
const Exchange = "waitlist.events"

// StatusChangedEvent is the message body consumers receive for every guest or table status change.
type StatusChangedEvent struct {
	ChangeID   uint      `json:"change_id"`
	VenueID    uint      `json:"venue_id"`
	Entity     string    `json:"entity"`
	RecordID   string    `json:"record_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

func NewStatusChangedEvent(change models.StatusChange) StatusChangedEvent {
	return StatusChangedEvent{
		ChangeID:   change.ID,
		VenueID:    change.VenueID,
		Entity:     change.Entity,
		RecordID:   change.RecordID,
		FromStatus: change.FromStatus,
		ToStatus:   change.ToStatus,
		Reason:     change.Reason,
		ChangedAt:  change.ChangedAt.UTC(),
	}
}

// RoutingKey -> "<entity>.<to_status>", e.g. guest.seated or table.cleardown
func (e StatusChangedEvent) RoutingKey() string {
	return fmt.Sprintf("%s.%s", e.Entity, strings.ToLower(e.ToStatus))
}

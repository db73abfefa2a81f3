package models

// GuestStatus is the lifecycle state of a waiting party.
type GuestStatus string

const (
	GuestWaiting      GuestStatus = "WAITING"
	GuestReady        GuestStatus = "READY"
	GuestSeated       GuestStatus = "SEATED"
	GuestAcknowledged GuestStatus = "ACKNOWLEDGED"
	GuestCancelled    GuestStatus = "CANCELLED"
	GuestCompleted    GuestStatus = "COMPLETED"
)

// ActiveGuestStatuses -> the live queue shown on the host dashboard
var ActiveGuestStatuses = []GuestStatus{GuestWaiting, GuestReady, GuestSeated, GuestAcknowledged}

// HistoryGuestStatuses -> terminal states kept for reporting
var HistoryGuestStatuses = []GuestStatus{GuestCompleted, GuestCancelled}

func (s GuestStatus) Valid() bool {
	switch s {
	case GuestWaiting, GuestReady, GuestSeated, GuestAcknowledged, GuestCancelled, GuestCompleted:
		return true
	}
	return false
}

func (s GuestStatus) Terminal() bool {
	return s == GuestCompleted || s == GuestCancelled
}

// TableStatus is the lifecycle state of a physical table.
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableCleardown TableStatus = "CLEARDOWN"
	TableClosed    TableStatus = "CLOSED"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableCleardown, TableClosed:
		return true
	}
	return false
}

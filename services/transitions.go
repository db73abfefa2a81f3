package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

// TransitionPolicy decides what happens to a status change that is not in the lifecycle table.
// Permissive accepts it and logs a warning, strict rejects it with ErrInvalidTransition.
type TransitionPolicy string

const (
	PolicyPermissive TransitionPolicy = "permissive"
	PolicyStrict     TransitionPolicy = "strict"
)

func ParsePolicy(s string) (TransitionPolicy, error) {
	switch TransitionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown transition policy %q: %w", s, ErrInvalid)
}

var guestTransitions = map[models.GuestStatus][]models.GuestStatus{
	models.GuestWaiting:      {models.GuestReady, models.GuestAcknowledged, models.GuestSeated, models.GuestCancelled},
	models.GuestReady:        {models.GuestAcknowledged, models.GuestSeated, models.GuestCancelled},
	models.GuestAcknowledged: {models.GuestSeated, models.GuestCancelled},
	models.GuestSeated:       {models.GuestCompleted, models.GuestCancelled},
}

var tableTransitions = map[models.TableStatus][]models.TableStatus{
	models.TableAvailable: {models.TableOccupied, models.TableClosed},
	models.TableOccupied:  {models.TableCleardown, models.TableClosed},
	models.TableCleardown: {models.TableAvailable, models.TableClosed},
	models.TableClosed:    {models.TableAvailable},
}

// GuestTransitionAllowed reports whether from -> to is part of the guest lifecycle.
// Re-applying the current status is always allowed.
func GuestTransitionAllowed(from, to models.GuestStatus) bool {
	if from == to {
		return true
	}
	for _, next := range guestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func TableTransitionAllowed(from, to models.TableStatus) bool {
	if from == to {
		return true
	}
	for _, next := range tableTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// initialGuestStatusAllowed -> a new guest joins the queue or is seated straight away
func initialGuestStatusAllowed(status models.GuestStatus) bool {
	return status == models.GuestWaiting || status == models.GuestSeated
}

func (p TransitionPolicy) checkGuest(guestID string, from, to models.GuestStatus) error {
	if GuestTransitionAllowed(from, to) {
		return nil
	}
	if p == PolicyStrict {
		return fmt.Errorf("guest %s %s -> %s: %w", guestID, from, to, ErrInvalidTransition)
	}
	utils.ErrorLogger.WithFields(logrus.Fields{
		"guest_id": guestID,
		"from":     from,
		"to":       to,
	}).Warn("guest transition outside the lifecycle accepted")
	return nil
}

func (p TransitionPolicy) checkTable(tableID uint, from, to models.TableStatus) error {
	if TableTransitionAllowed(from, to) {
		return nil
	}
	if p == PolicyStrict {
		return fmt.Errorf("table %d %s -> %s: %w", tableID, from, to, ErrInvalidTransition)
	}
	utils.ErrorLogger.WithFields(logrus.Fields{
		"table_id": tableID,
		"from":     from,
		"to":       to,
	}).Warn("table transition outside the lifecycle accepted")
	return nil
}

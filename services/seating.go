package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ensureTableFree fails with ErrTableOccupied when a guest other than guestID is SEATED at the table.
func ensureTableFree(ctx context.Context, tx *database.Store, tableID uint, guestID string) error {
	seated, err := tx.FindGuests(ctx, database.GuestFilter{
		TableID:  &tableID,
		Statuses: []models.GuestStatus{models.GuestSeated},
	})
	if err != nil {
		return err
	}
	for _, g := range seated {
		if g.ID != guestID {
			return fmt.Errorf("table %d is held by guest %s: %w", tableID, g.ID, ErrTableOccupied)
		}
	}
	return nil
}

// occupyTable binds the table to guestID: guard first, then table -> OCCUPIED.
func occupyTable(ctx context.Context, tx *database.Store, policy TransitionPolicy, table *models.Table, guestID string, now time.Time) error {
	if err := ensureTableFree(ctx, tx, table.ID, guestID); err != nil {
		return err
	}
	return setTableStatus(ctx, tx, policy, table, models.TableOccupied, "guest "+guestID+" seated", now)
}

// setTableStatus writes the table (capacity included) with the version check and records the change.
func setTableStatus(ctx context.Context, tx *database.Store, policy TransitionPolicy, table *models.Table, to models.TableStatus, reason string, now time.Time) error {
	from := table.Status
	if err := policy.checkTable(table.ID, from, to); err != nil {
		return err
	}
	table.Status = to
	if err := tx.UpdateTable(ctx, table); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	return tx.RecordChange(ctx, &models.StatusChange{
		VenueID:    table.VenueID,
		Entity:     models.EntityTable,
		RecordID:   fmt.Sprint(table.ID),
		FromStatus: string(from),
		ToStatus:   string(to),
		Reason:     reason,
		ChangedAt:  now,
	})
}

// completeSeatedGuest closes out whoever is SEATED at the table when it goes to cleardown.
func completeSeatedGuest(ctx context.Context, tx *database.Store, tableID uint, now time.Time) (*models.Guest, error) {
	guest, err := tx.SeatedGuestAt(ctx, tableID)
	if err != nil || guest == nil {
		return nil, err
	}
	from := guest.Status
	guest.Status = models.GuestCompleted
	guest.LeftAt = &now
	if err := tx.UpdateGuest(ctx, guest); err != nil {
		return nil, err
	}
	if err := recordGuestChange(ctx, tx, guest, from, "table cleared down", now); err != nil {
		return nil, err
	}
	return guest, nil
}

func recordGuestChange(ctx context.Context, tx *database.Store, guest *models.Guest, from models.GuestStatus, reason string, now time.Time) error {
	return tx.RecordChange(ctx, &models.StatusChange{
		VenueID:    guest.VenueID,
		Entity:     models.EntityGuest,
		RecordID:   guest.ID,
		FromStatus: string(from),
		ToStatus:   string(guest.Status),
		Reason:     reason,
		ChangedAt:  now,
	})
}

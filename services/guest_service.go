package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

type CreateGuestInput struct {
	VenueID   uint
	Name      string
	PartySize int
	TableID   *uint
	// Status defaults to WAITING when empty.
	Status models.GuestStatus
}

type UpdateGuestStatusInput struct {
	Status             models.GuestStatus
	TableID            *uint
	CancellationReason *string
}

// ListGuestsQuery -> filters for the venue queue. Empty Statuses means every status.
type ListGuestsQuery struct {
	Statuses     []models.GuestStatus
	CreatedAfter *time.Time
	Page         database.Page
}

type GuestService struct {
	store  *database.Store
	policy TransitionPolicy
	now    func() time.Time
}

func NewGuestService(store *database.Store, policy TransitionPolicy) *GuestService {
	return &GuestService{store: store, policy: policy, now: utcNow}
}

// CreateGuest adds a party to the venue queue. A party created SEATED at a table takes the
// table in the same transaction.
func (s *GuestService) CreateGuest(ctx context.Context, in CreateGuestInput) (*models.Guest, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("guest name is required: %w", ErrInvalid)
	}
	if in.PartySize <= 0 {
		return nil, fmt.Errorf("party size must be positive, got %d: %w", in.PartySize, ErrInvalid)
	}
	if in.Status == "" {
		in.Status = models.GuestWaiting
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("unknown guest status %q: %w", in.Status, ErrInvalid)
	}
	if s.policy == PolicyStrict && !initialGuestStatusAllowed(in.Status) {
		return nil, fmt.Errorf("guest cannot start as %s: %w", in.Status, ErrInvalidTransition)
	}

	now := s.now()
	guest := &models.Guest{
		ID:        uuid.NewString(),
		VenueID:   in.VenueID,
		TableID:   in.TableID,
		Name:      in.Name,
		PartySize: in.PartySize,
		Status:    in.Status,
		CreatedAt: now,
	}
	switch in.Status {
	case models.GuestSeated:
		guest.SeatedAt = &now
	case models.GuestAcknowledged:
		guest.AcknowledgedAt = &now
	}

	err := s.store.Transaction(ctx, func(tx *database.Store) error {
		if _, err := tx.GetVenue(ctx, in.VenueID); err != nil {
			return lookupErr(err, "venue %d", in.VenueID)
		}
		if in.TableID != nil {
			table, err := tx.GetTable(ctx, *in.TableID)
			if err != nil {
				return lookupErr(err, "table %d", *in.TableID)
			}
			if table.VenueID != in.VenueID {
				return fmt.Errorf("table %d belongs to venue %d: %w", table.ID, table.VenueID, ErrInvalid)
			}
			if in.Status == models.GuestSeated {
				if err := occupyTable(ctx, tx, s.policy, table, guest.ID, now); err != nil {
					return err
				}
			}
		}
		if err := tx.Insert(ctx, guest); err != nil {
			return err
		}
		return recordGuestChange(ctx, tx, guest, "", "created", now)
	})
	if err != nil {
		return nil, classify("create guest", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"guest_id":   guest.ID,
		"venue_id":   guest.VenueID,
		"party_size": guest.PartySize,
		"status":     guest.Status,
	}).Info("guest added")
	return guest, nil
}

func (s *GuestService) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	guest, err := s.store.GetGuest(ctx, id)
	if err != nil {
		return nil, classify("get guest", lookupErr(err, "guest %s", id))
	}
	return guest, nil
}

// UpdateGuestStatus moves the guest to in.Status. A table_id binds the guest to that table and
// makes it OCCUPIED whatever the new status is; SEATED without a table_id re-occupies the table
// the guest is already bound to.
func (s *GuestService) UpdateGuestStatus(ctx context.Context, id string, in UpdateGuestStatusInput) (*models.Guest, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("unknown guest status %q: %w", in.Status, ErrInvalid)
	}

	var (
		guest *models.Guest
		from  models.GuestStatus
	)
	err := s.store.Transaction(ctx, func(tx *database.Store) error {
		g, err := tx.GetGuest(ctx, id)
		if err != nil {
			return lookupErr(err, "guest %s", id)
		}
		from = g.Status
		if err := s.policy.checkGuest(g.ID, from, in.Status); err != nil {
			return err
		}

		now := s.now()
		tableID := in.TableID
		if tableID == nil && in.Status == models.GuestSeated {
			tableID = g.TableID
		}
		if tableID != nil {
			table, err := tx.GetTable(ctx, *tableID)
			if err != nil {
				return lookupErr(err, "table %d", *tableID)
			}
			if table.VenueID != g.VenueID {
				return fmt.Errorf("table %d belongs to venue %d: %w", table.ID, table.VenueID, ErrInvalid)
			}
			if err := occupyTable(ctx, tx, s.policy, table, g.ID, now); err != nil {
				return err
			}
			g.TableID = tableID
		}

		g.Status = in.Status
		if in.CancellationReason != nil && *in.CancellationReason != "" {
			g.CancellationReason = in.CancellationReason
		}
		switch in.Status {
		case models.GuestAcknowledged:
			g.AcknowledgedAt = &now
		case models.GuestSeated:
			if g.SeatedAt == nil {
				g.SeatedAt = &now
			}
		}

		if err := tx.UpdateGuest(ctx, g); err != nil {
			return err
		}
		if from != g.Status {
			reason := ""
			if g.CancellationReason != nil && g.Status == models.GuestCancelled {
				reason = *g.CancellationReason
			}
			if err := recordGuestChange(ctx, tx, g, from, reason, now); err != nil {
				return err
			}
		}
		guest = g
		return nil
	})
	if err != nil {
		return nil, classify("update guest status", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"guest_id": guest.ID,
		"from":     from,
		"to":       guest.Status,
		"table_id": guest.TableID,
	}).Info("guest status updated")
	return guest, nil
}

// ListGuests -> venue queue in arrival order
func (s *GuestService) ListGuests(ctx context.Context, venueID uint, q ListGuestsQuery) ([]models.Guest, error) {
	for _, st := range q.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("unknown guest status %q: %w", st, ErrInvalid)
		}
	}
	if _, err := s.store.GetVenue(ctx, venueID); err != nil {
		return nil, classify("list guests", lookupErr(err, "venue %d", venueID))
	}

	guests, err := s.store.FindGuests(ctx, database.GuestFilter{
		VenueID:      venueID,
		Statuses:     q.Statuses,
		CreatedAfter: q.CreatedAfter,
		Page:         q.Page,
	})
	if err != nil {
		return nil, classify("list guests", err)
	}
	return guests, nil
}

// ListGuestChanges returns the guest's status history, oldest first.
func (s *GuestService) ListGuestChanges(ctx context.Context, id string) ([]models.StatusChange, error) {
	if _, err := s.store.GetGuest(ctx, id); err != nil {
		return nil, classify("list guest changes", lookupErr(err, "guest %s", id))
	}
	changes, err := s.store.FindChanges(ctx, models.EntityGuest, id)
	if err != nil {
		return nil, classify("list guest changes", err)
	}
	return changes, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

type CreateTableInput struct {
	TableNumber string
	Capacity    int
	// Status defaults to AVAILABLE when empty.
	Status models.TableStatus
}

// UpdateTableInput -> nil fields are left untouched
type UpdateTableInput struct {
	Capacity *int
	Status   *models.TableStatus
}

type TableService struct {
	store  *database.Store
	policy TransitionPolicy
	now    func() time.Time
}

func NewTableService(store *database.Store, policy TransitionPolicy) *TableService {
	return &TableService{store: store, policy: policy, now: utcNow}
}

func (s *TableService) CreateTable(ctx context.Context, venueID uint, in CreateTableInput) (*models.Table, error) {
	in.TableNumber = strings.TrimSpace(in.TableNumber)
	if in.TableNumber == "" {
		return nil, fmt.Errorf("table number is required: %w", ErrInvalid)
	}
	if in.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d: %w", in.Capacity, ErrInvalid)
	}
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("unknown table status %q: %w", in.Status, ErrInvalid)
	}

	table := &models.Table{
		VenueID:     venueID,
		TableNumber: in.TableNumber,
		Capacity:    in.Capacity,
		Status:      in.Status,
	}
	err := s.store.Transaction(ctx, func(tx *database.Store) error {
		if _, err := tx.GetVenue(ctx, venueID); err != nil {
			return lookupErr(err, "venue %d", venueID)
		}
		if err := tx.Insert(ctx, table); err != nil {
			return err
		}
		return tx.RecordChange(ctx, &models.StatusChange{
			VenueID:   venueID,
			Entity:    models.EntityTable,
			RecordID:  fmt.Sprint(table.ID),
			ToStatus:  string(table.Status),
			Reason:    "created",
			ChangedAt: s.now(),
		})
	})
	if err != nil {
		return nil, classify("create table", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"venue_id": venueID,
		"table_id": table.ID,
		"number":   table.TableNumber,
	}).Info("table created")
	return table, nil
}

func (s *TableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	table, err := s.store.GetTable(ctx, id)
	if err != nil {
		return nil, classify("get table", lookupErr(err, "table %d", id))
	}
	return table, nil
}

// UpdateTable applies capacity and status. OCCUPIED -> CLEARDOWN also completes the guest
// seated at the table, in the same transaction.
func (s *TableService) UpdateTable(ctx context.Context, id uint, in UpdateTableInput) (*models.Table, error) {
	if in.Capacity != nil && *in.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d: %w", *in.Capacity, ErrInvalid)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("unknown table status %q: %w", *in.Status, ErrInvalid)
	}

	var (
		table     *models.Table
		completed *models.Guest
		from      models.TableStatus
	)
	err := s.store.Transaction(ctx, func(tx *database.Store) error {
		t, err := tx.GetTable(ctx, id)
		if err != nil {
			return lookupErr(err, "table %d", id)
		}
		from = t.Status
		if in.Capacity != nil {
			t.Capacity = *in.Capacity
		}

		now := s.now()
		if in.Status == nil {
			if err := tx.UpdateTable(ctx, t); err != nil {
				return err
			}
		} else if err := setTableStatus(ctx, tx, s.policy, t, *in.Status, "", now); err != nil {
			return err
		}

		if from == models.TableOccupied && t.Status == models.TableCleardown {
			if completed, err = completeSeatedGuest(ctx, tx, t.ID, now); err != nil {
				return err
			}
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, classify("update table", err)
	}

	fields := logrus.Fields{
		"table_id": table.ID,
		"from":     from,
		"to":       table.Status,
		"capacity": table.Capacity,
	}
	if completed != nil {
		fields["completed_guest"] = completed.ID
	}
	utils.InfoLogger.WithFields(fields).Info("table updated")
	return table, nil
}

// ListTables returns the venue's tables with the currently seated guest attached.
func (s *TableService) ListTables(ctx context.Context, venueID uint) ([]models.TableWithGuest, error) {
	if _, err := s.store.GetVenue(ctx, venueID); err != nil {
		return nil, classify("list tables", lookupErr(err, "venue %d", venueID))
	}

	tables, err := s.store.FindTables(ctx, venueID)
	if err != nil {
		return nil, classify("list tables", err)
	}
	result := make([]models.TableWithGuest, 0, len(tables))
	if len(tables) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	seated, err := s.store.FindGuests(ctx, database.GuestFilter{
		TableIDs: ids,
		Statuses: []models.GuestStatus{models.GuestSeated},
		Page:     database.Page{Limit: database.MaxLimit},
	})
	if err != nil {
		return nil, classify("list tables", err)
	}
	byTable := make(map[uint]*models.Guest, len(seated))
	for i := range seated {
		g := &seated[i]
		if g.TableID != nil {
			byTable[*g.TableID] = g
		}
	}

	for _, t := range tables {
		result = append(result, models.TableWithGuest{Table: t, ActiveGuest: byTable[t.ID]})
	}
	return result, nil
}

// TableHistory -> guests seated at the table since the start of the current UTC day, newest first
func (s *TableService) TableHistory(ctx context.Context, tableID uint) ([]models.Guest, error) {
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return nil, classify("table history", lookupErr(err, "table %d", tableID))
	}

	since := startOfDay(s.now())
	guests, err := s.store.FindGuests(ctx, database.GuestFilter{
		TableID:           &tableID,
		SeatedAfter:       &since,
		NewestSeatedFirst: true,
		Page:              database.Page{Limit: database.MaxLimit},
	})
	if err != nil {
		return nil, classify("table history", err)
	}
	return guests, nil
}

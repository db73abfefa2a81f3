package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yeremiapane/waitlist-app/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrVersionConflict = errors.New("record was modified by another request")
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Page -> offset/limit pagination
type Page struct {
	Offset int
	Limit  int
}

func (p Page) normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// GuestFilter -> predicate for FindGuests. Zero fields are ignored.
type GuestFilter struct {
	VenueID      uint
	TableID      *uint
	TableIDs     []uint
	Statuses     []models.GuestStatus
	CreatedAfter *time.Time
	SeatedAfter  *time.Time
	// NewestSeatedFirst orders by seated_at DESC instead of queue order.
	NewestSeatedFirst bool
	Page              Page
}

// Store is the record store used by the services. A Store returned by
// Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one database transaction. Any error returned by fn
// rolls back every write made through the tx store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Insert(ctx context.Context, value interface{}) error {
	return translate(s.db.WithContext(ctx).Create(value).Error)
}

func (s *Store) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error; err != nil {
		return nil, translate(err)
	}
	return &venue, nil
}

func (s *Store) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (s *Store) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error; err != nil {
		return nil, translate(err)
	}
	return &guest, nil
}

// UpdateTable writes capacity and status only if nobody else wrote the row since
// it was read (compare-and-swap on Version). On success t.Version is advanced.
func (s *Store) UpdateTable(ctx context.Context, t *models.Table) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"capacity":   t.Capacity,
			"status":     string(t.Status),
			"version":    t.Version + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	t.Version++
	t.UpdatedAt = now
	return nil
}

func (s *Store) UpdateGuest(ctx context.Context, g *models.Guest) error {
	return translate(s.db.WithContext(ctx).Save(g).Error)
}

func (s *Store) FindVenues(ctx context.Context, page Page) ([]models.Venue, error) {
	page = page.normalize()
	venues := []models.Venue{}
	err := s.db.WithContext(ctx).Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&venues).Error
	return venues, translate(err)
}

func (s *Store) FindTables(ctx context.Context, venueID uint) ([]models.Table, error) {
	tables := []models.Table{}
	err := s.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("id ASC").Find(&tables).Error
	return tables, translate(err)
}

func (s *Store) FindGuests(ctx context.Context, f GuestFilter) ([]models.Guest, error) {
	q := s.db.WithContext(ctx).Model(&models.Guest{})
	if f.VenueID != 0 {
		q = q.Where("venue_id = ?", f.VenueID)
	}
	if f.TableID != nil {
		q = q.Where("table_id = ?", *f.TableID)
	}
	if len(f.TableIDs) > 0 {
		q = q.Where("table_id IN ?", f.TableIDs)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, string(st))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.CreatedAfter != nil {
		q = q.Where("created_at >= ?", f.CreatedAfter.UTC())
	}
	if f.SeatedAfter != nil {
		q = q.Where("seated_at >= ?", f.SeatedAfter.UTC())
	}
	if f.NewestSeatedFirst {
		q = q.Order("seated_at DESC")
	} else {
		q = q.Order("created_at ASC").Order("id ASC")
	}

	page := f.Page.normalize()
	guests := []models.Guest{}
	err := q.Offset(page.Offset).Limit(page.Limit).Find(&guests).Error
	return guests, translate(err)
}

// SeatedGuestAt returns the guest currently SEATED at the table, or nil.
func (s *Store) SeatedGuestAt(ctx context.Context, tableID uint) (*models.Guest, error) {
	var guests []models.Guest
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND status = ?", tableID, string(models.GuestSeated)).
		Order("seated_at DESC").
		Limit(1).
		Find(&guests).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(guests) == 0 {
		return nil, nil
	}
	return &guests[0], nil
}

func (s *Store) RecordChange(ctx context.Context, change *models.StatusChange) error {
	return s.Insert(ctx, change)
}

func (s *Store) FindChanges(ctx context.Context, entity, recordID string) ([]models.StatusChange, error) {
	changes := []models.StatusChange{}
	err := s.db.WithContext(ctx).
		Where("entity = ? AND record_id = ?", entity, recordID).
		Order("id ASC").
		Find(&changes).Error
	return changes, translate(err)
}

// PendingChanges -> oldest unprocessed changes first
func (s *Store) PendingChanges(ctx context.Context, limit int) ([]models.StatusChange, error) {
	changes := []models.StatusChange{}
	err := s.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&changes).Error
	return changes, translate(err)
}

// MarkChangesProcessed flags a delivered batch in one statement.
func (s *Store) MarkChangesProcessed(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Model(&models.StatusChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry") {
		return ErrDuplicate
	}
	return err
}

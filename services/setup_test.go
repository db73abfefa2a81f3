package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB -> private in-memory sqlite database per test, migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type fixture struct {
	db     *gorm.DB
	store  *database.Store
	venues *VenueService
	tables *TableService
	guests *GuestService
}

func newFixture(t *testing.T, policy TransitionPolicy) *fixture {
	db := setupTestDB(t)
	store := database.NewStore(db)
	return &fixture{
		db:     db,
		store:  store,
		venues: NewVenueService(store),
		tables: NewTableService(store, policy),
		guests: NewGuestService(store, policy),
	}
}

// setClock pins both services to the same instant.
func (f *fixture) setClock(at time.Time) {
	clock := func() time.Time { return at }
	f.tables.now = clock
	f.guests.now = clock
}

func (f *fixture) venue(t *testing.T, name string) *models.Venue {
	t.Helper()
	v, err := f.venues.CreateVenue(context.Background(), name)
	require.NoError(t, err)
	return v
}

func (f *fixture) table(t *testing.T, venueID uint, number string, capacity int) *models.Table {
	t.Helper()
	tb, err := f.tables.CreateTable(context.Background(), venueID, CreateTableInput{TableNumber: number, Capacity: capacity})
	require.NoError(t, err)
	return tb
}

func (f *fixture) guest(t *testing.T, venueID uint, name string, party int) *models.Guest {
	t.Helper()
	g, err := f.guests.CreateGuest(context.Background(), CreateGuestInput{VenueID: venueID, Name: name, PartySize: party})
	require.NoError(t, err)
	return g
}

func (f *fixture) reloadGuest(t *testing.T, id string) *models.Guest {
	t.Helper()
	g, err := f.store.GetGuest(context.Background(), id)
	require.NoError(t, err)
	return g
}

func (f *fixture) reloadTable(t *testing.T, id uint) *models.Table {
	t.Helper()
	tb, err := f.store.GetTable(context.Background(), id)
	require.NoError(t, err)
	return tb
}

func statusPtr(s models.TableStatus) *models.TableStatus { return &s }

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

// failWritesTo makes every UPDATE against table fail, as a full disk would.
func failWritesTo(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(errors.New("disk I/O error"))
		}
	})
	require.NoError(t, err)
}

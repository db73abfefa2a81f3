package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/waitlist-app/controllers"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupTestDB -> in-memory sqlite, one per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func setupRouter(t *testing.T, policy services.TransitionPolicy) *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	store := database.NewStore(setupTestDB(t))
	venueCtrl := controllers.NewVenueController(services.NewVenueService(store))
	tableCtrl := controllers.NewTableController(services.NewTableService(store, policy))
	guestCtrl := controllers.NewGuestController(services.NewGuestService(store, policy))

	r := gin.New()
	r.POST("/venues", venueCtrl.CreateVenue)
	r.GET("/venues", venueCtrl.ListVenues)
	r.GET("/venues/:venue_id", venueCtrl.GetVenue)
	r.POST("/venues/:venue_id/tables", tableCtrl.CreateTable)
	r.GET("/venues/:venue_id/tables", tableCtrl.ListTables)
	r.GET("/venues/:venue_id/guests", guestCtrl.ListGuests)
	r.GET("/tables/:table_id", tableCtrl.GetTable)
	r.PUT("/tables/:table_id", tableCtrl.UpdateTable)
	r.GET("/tables/:table_id/history", tableCtrl.TableHistory)
	r.POST("/guests", guestCtrl.CreateGuest)
	r.GET("/guests/:guest_id", guestCtrl.GetGuest)
	r.PUT("/guests/:guest_id/status", guestCtrl.UpdateGuestStatus)
	r.GET("/guests/:guest_id/changes", guestCtrl.ListGuestChanges)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

type guestDTO struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	TableID            *uint   `json:"table_id"`
	SeatedAt           *string `json:"seated_at"`
	LeftAt             *string `json:"left_at"`
	CancellationReason *string `json:"cancellation_reason"`
}

type tableDTO struct {
	ID          uint      `json:"id"`
	Status      string    `json:"status"`
	Capacity    int       `json:"capacity"`
	ActiveGuest *guestDTO `json:"active_guest"`
}

func createVenue(t *testing.T, r *gin.Engine, name string) uint {
	code, resp := doJSON(t, r, http.MethodPost, "/venues", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, code)
	var v struct {
		ID uint `json:"id"`
	}
	decode(t, resp.Data, &v)
	return v.ID
}

func createTable(t *testing.T, r *gin.Engine, venueID uint, number string) uint {
	code, resp := doJSON(t, r, http.MethodPost, fmt.Sprintf("/venues/%d/tables", venueID), gin.H{
		"table_number": number, "capacity": 4,
	})
	require.Equal(t, http.StatusCreated, code)
	var tb tableDTO
	decode(t, resp.Data, &tb)
	return tb.ID
}

func createGuest(t *testing.T, r *gin.Engine, venueID uint, name string) string {
	code, resp := doJSON(t, r, http.MethodPost, "/guests", gin.H{
		"venue_id": venueID, "name": name, "party_size": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	var g guestDTO
	decode(t, resp.Data, &g)
	return g.ID
}

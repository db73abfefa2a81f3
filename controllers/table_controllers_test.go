package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/waitlist-app/services"
)

func TestCreateTableValidation(t *testing.T) {
	r := setupRouter(t, services.PolicyPermissive)
	venueID := createVenue(t, r, "V1")

	code, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/venues/%d/tables", venueID), gin.H{"table_number": "A1", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, r, http.MethodPost, "/venues/99/tables", gin.H{"table_number": "A1", "capacity": 2})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/venues/%d/tables", venueID), gin.H{"table_number": "A1", "capacity": 2, "status": "WOBBLY"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateTableAndListWithActiveGuest(t *testing.T) {
	r := setupRouter(t, services.PolicyPermissive)
	venueID := createVenue(t, r, "V1")
	tableID := createTable(t, r, venueID, "A1")
	guestID := createGuest(t, r, venueID, "Wulan")

	code, _ := doJSON(t, r, http.MethodPut, "/guests/"+guestID+"/status", gin.H{"status": "SEATED", "table_id": tableID})
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, r, http.MethodGet, fmt.Sprintf("/venues/%d/tables", venueID), nil)
	require.Equal(t, http.StatusOK, code)
	var tables []tableDTO
	decode(t, resp.Data, &tables)
	require.Len(t, tables, 1)
	assert.Equal(t, "OCCUPIED", tables[0].Status)
	require.NotNil(t, tables[0].ActiveGuest)
	assert.Equal(t, guestID, tables[0].ActiveGuest.ID)

	code, resp = doJSON(t, r, http.MethodPut, fmt.Sprintf("/tables/%d", tableID), gin.H{"capacity": 6})
	require.Equal(t, http.StatusOK, code)
	var tb tableDTO
	decode(t, resp.Data, &tb)
	assert.Equal(t, 6, tb.Capacity)
	assert.Equal(t, "OCCUPIED", tb.Status)

	code, _ = doJSON(t, r, http.MethodPut, fmt.Sprintf("/tables/%d", tableID), gin.H{"capacity": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, r, http.MethodPut, "/tables/404", gin.H{"status": "CLOSED"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStrictTableTransitionReturns422(t *testing.T) {
	r := setupRouter(t, services.PolicyStrict)
	venueID := createVenue(t, r, "V1")
	tableID := createTable(t, r, venueID, "A1")

	code, resp := doJSON(t, r, http.MethodPut, fmt.Sprintf("/tables/%d", tableID), gin.H{"status": "CLEARDOWN"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, resp.Status)
}

func TestTableHistoryEndpoint(t *testing.T) {
	r := setupRouter(t, services.PolicyPermissive)
	venueID := createVenue(t, r, "V1")
	tableID := createTable(t, r, venueID, "A1")
	guestID := createGuest(t, r, venueID, "Yuni")

	code, _ := doJSON(t, r, http.MethodPut, "/guests/"+guestID+"/status", gin.H{"status": "SEATED", "table_id": tableID})
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tables/%d/history", tableID), nil)
	require.Equal(t, http.StatusOK, code)
	var guests []guestDTO
	decode(t, resp.Data, &guests)
	require.Len(t, guests, 1)
	assert.Equal(t, guestID, guests[0].ID)

	code, _ = doJSON(t, r, http.MethodGet, "/tables/999/history", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

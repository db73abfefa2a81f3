package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// CreateTable -> add a table to the venue floor
func (tc *TableController) CreateTable(c *gin.Context) {
	venueID, ok := uintParam(c, "venue_id")
	if !ok {
		return
	}
	var req struct {
		TableNumber string             `json:"table_number" binding:"required"`
		Capacity    int                `json:"capacity" binding:"required,gt=0"`
		Status      models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(c.Request.Context(), venueID, services.CreateTableInput{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// ListTables -> every table of the venue with the guest seated at it
func (tc *TableController) ListTables(c *gin.Context) {
	venueID, ok := uintParam(c, "venue_id")
	if !ok {
		return
	}
	tables, err := tc.Tables.ListTables(c.Request.Context(), venueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tables.GetTable(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> capacity and/or status; CLEARDOWN releases the seated guest
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	var req struct {
		Capacity *int                `json:"capacity" binding:"omitempty,gt=0"`
		Status   *models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.UpdateTable(c.Request.Context(), id, services.UpdateTableInput{
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// TableHistory -> today's guests at the table, latest first
func (tc *TableController) TableHistory(c *gin.Context) {
	id, ok := uintParam(c, "table_id")
	if !ok {
		return
	}
	guests, err := tc.Tables.TableHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table history", guests)
}

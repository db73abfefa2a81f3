package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(guests *services.GuestService) *GuestController {
	return &GuestController{Guests: guests}
}

// CreateGuest -> add a party to the waitlist (or seat it straight away)
func (gc *GuestController) CreateGuest(c *gin.Context) {
	var req struct {
		VenueID   uint               `json:"venue_id" binding:"required"`
		Name      string             `json:"name" binding:"required"`
		PartySize int                `json:"party_size" binding:"required,gt=0"`
		TableID   *uint              `json:"table_id"`
		Status    models.GuestStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guest, err := gc.Guests.CreateGuest(c.Request.Context(), services.CreateGuestInput{
		VenueID:   req.VenueID,
		Name:      req.Name,
		PartySize: req.PartySize,
		TableID:   req.TableID,
		Status:    req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Guest added to waitlist", guest)
}

func (gc *GuestController) GetGuest(c *gin.Context) {
	guest, err := gc.Guests.GetGuest(c.Request.Context(), c.Param("guest_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest detail", guest)
}

// UpdateGuestStatus -> move the guest through the lifecycle, optionally binding a table
func (gc *GuestController) UpdateGuestStatus(c *gin.Context) {
	var req struct {
		Status             models.GuestStatus `json:"status" binding:"required"`
		TableID            *uint              `json:"table_id"`
		CancellationReason *string            `json:"cancellation_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guest, err := gc.Guests.UpdateGuestStatus(c.Request.Context(), c.Param("guest_id"), services.UpdateGuestStatusInput{
		Status:             req.Status,
		TableID:            req.TableID,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest status updated", guest)
}

// ListGuests -> ?status=WAITING&status=READY&created_after=RFC3339&skip=&limit=
func (gc *GuestController) ListGuests(c *gin.Context) {
	venueID, ok := uintParam(c, "venue_id")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	query := services.ListGuestsQuery{Page: q.page()}
	for _, s := range c.QueryArray("status") {
		query.Statuses = append(query.Statuses, models.GuestStatus(s))
	}
	if raw := c.Query("created_after"); raw != "" {
		after, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("created_after must be RFC3339: %w", err))
			return
		}
		query.CreatedAfter = &after
	}

	guests, err := gc.Guests.ListGuests(c.Request.Context(), venueID, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of guests", guests)
}

// ListGuestChanges -> status history of one guest
func (gc *GuestController) ListGuestChanges(c *gin.Context) {
	changes, err := gc.Guests.ListGuestChanges(c.Request.Context(), c.Param("guest_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest status history", changes)
}

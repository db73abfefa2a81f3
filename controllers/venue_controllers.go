package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/waitlist-app/services"
	"github.com/yeremiapane/waitlist-app/utils"
)

type VenueController struct {
	Venues *services.VenueService
}

func NewVenueController(venues *services.VenueService) *VenueController {
	return &VenueController{Venues: venues}
}

// CreateVenue -> register a new venue
func (vc *VenueController) CreateVenue(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	venue, err := vc.Venues.CreateVenue(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Venue created", venue)
}

func (vc *VenueController) GetVenue(c *gin.Context) {
	id, ok := uintParam(c, "venue_id")
	if !ok {
		return
	}
	venue, err := vc.Venues.GetVenue(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venue detail", venue)
}

func (vc *VenueController) ListVenues(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	venues, err := vc.Venues.ListVenues(c.Request.Context(), q.page())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of venues", venues)
}

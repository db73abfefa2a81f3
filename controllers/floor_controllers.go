package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/waitlist-app/floor"
	"github.com/yeremiapane/waitlist-app/services"
)

type FloorController struct {
	Hub    *floor.Hub
	Venues *services.VenueService
	// Upgrader is exposed so the router can restrict origins.
	Upgrader websocket.Upgrader
}

func NewFloorController(hub *floor.Hub, venues *services.VenueService, allowedOrigins []string) *FloorController {
	return &FloorController{
		Hub:      hub,
		Venues:   venues,
		Upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// FloorSocket -> staff floor-board websocket for one venue
func (fc *FloorController) FloorSocket(c *gin.Context) {
	venueID, ok := uintParam(c, "venue_id")
	if !ok {
		return
	}
	if _, err := fc.Venues.GetVenue(c.Request.Context(), venueID); err != nil {
		respondServiceError(c, err)
		return
	}

	ws, err := fc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	fc.Hub.RegisterClient(ws, venueID)

	// boards only listen; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	fc.Hub.UnregisterClient(ws)
}

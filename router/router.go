package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/waitlist-app/config"
	"github.com/yeremiapane/waitlist-app/controllers"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/floor"
	"github.com/yeremiapane/waitlist-app/middlewares"
	"github.com/yeremiapane/waitlist-app/services"
)

// Deps -> what the HTTP layer needs. Redis may be nil.
type Deps struct {
	Store  *database.Store
	Hub    *floor.Hub
	Redis  *redis.Client
	Config config.Config
}

// SetupRouter -> fails on a transition policy it does not know
func SetupRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	policy, err := services.ParsePolicy(cfg.TransitionPolicy)
	if err != nil {
		return nil, err
	}

	venueService := services.NewVenueService(deps.Store)
	tableService := services.NewTableService(deps.Store, policy)
	guestService := services.NewGuestService(deps.Store, policy)

	venueCtrl := controllers.NewVenueController(venueService)
	tableCtrl := controllers.NewTableController(tableService)
	guestCtrl := controllers.NewGuestController(guestService)
	floorCtrl := controllers.NewFloorController(deps.Hub, venueService, cfg.CORSOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders(cfg.Env == "production"))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	cached := middlewares.ResponseCache(cfg.Cache, deps.Redis)

	venues := api.Group("/venues")
	{
		venues.POST("", venueCtrl.CreateVenue)
		venues.GET("", venueCtrl.ListVenues)
		venues.GET("/:venue_id", cached, venueCtrl.GetVenue)
		venues.POST("/:venue_id/tables", tableCtrl.CreateTable)
		venues.GET("/:venue_id/tables", tableCtrl.ListTables)
		venues.GET("/:venue_id/guests", guestCtrl.ListGuests)
		venues.GET("/:venue_id/floor/ws", floorCtrl.FloorSocket)
	}

	tables := api.Group("/tables")
	{
		tables.GET("/:table_id", tableCtrl.GetTable)
		tables.PUT("/:table_id", tableCtrl.UpdateTable)
		tables.GET("/:table_id/history", tableCtrl.TableHistory)
	}

	guests := api.Group("/guests")
	{
		guests.POST("", guestCtrl.CreateGuest)
		guests.GET("/:guest_id", guestCtrl.GetGuest)
		guests.PUT("/:guest_id/status", guestCtrl.UpdateGuestStatus)
		guests.GET("/:guest_id/changes", guestCtrl.ListGuestChanges)
	}

	return r, nil
}

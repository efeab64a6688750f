package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ambulance/internal/domain"
	"ambulance/internal/handler"
	"ambulance/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	ContactHandler *handler.ContactHandler
	FleetHandler   *handler.FleetHandler
	Tokens         middleware.TokenParser
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Logger         *zap.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.Authenticate(deps.Tokens))
	api.Use(middleware.IdempotencyMiddleware(deps.RedisClient, log))

	everyone := middleware.RequireRoles(domain.Roles...)
	usersOnly := middleware.RequireRoles(domain.RoleUser)
	staff := middleware.RequireRoles(domain.RoleDriver, domain.RoleAdmin)

	bookings := api.Group("/bookings")
	{
		bookings.GET("", everyone, deps.BookingHandler.List)
		bookings.POST("", usersOnly, deps.BookingHandler.Create)
		bookings.GET("/:id", everyone, deps.BookingHandler.Get)
		bookings.POST("/:id/cancel", middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin), deps.BookingHandler.Cancel)
		bookings.POST("/:id/review", usersOnly, deps.BookingHandler.Review)
		bookings.PUT("/:id/status", staff, deps.BookingHandler.UpdateStatus)
	}

	contacts := api.Group("/emergency-contacts", usersOnly)
	{
		contacts.GET("", deps.ContactHandler.List)
		contacts.POST("", deps.ContactHandler.Create)
		contacts.PUT("/primary/:id", deps.ContactHandler.SetPrimary)
		contacts.PUT("/:id", deps.ContactHandler.Update)
		contacts.DELETE("/:id", deps.ContactHandler.Delete)
	}

	api.GET("/hospitals", everyone, deps.FleetHandler.ListHospitals)

	vehicles := api.Group("/vehicles", staff)
	{
		vehicles.GET("", deps.FleetHandler.ListVehicles)
		vehicles.PUT("/:id/status", deps.FleetHandler.UpdateVehicleStatus)
		vehicles.PUT("/:id/equipment", deps.FleetHandler.UpdateVehicleEquipment)
	}

	return router
}

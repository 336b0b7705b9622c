package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"pickup/internal/handler"
	"pickup/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	QuoteHandler    *handler.QuoteHandler
	PickupHandler   *handler.PickupHandler
	PayoutHandler   *handler.PayoutHandler
	CustomerHandler *handler.CustomerHandler
	DriverHandler   *handler.DriverHandler
	ReceiptHandler  *handler.ReceiptHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Customer routes.
		customers := v1.Group("/customers")
		{
			customers.POST("/register", deps.CustomerHandler.Register)
			customers.GET("", deps.CustomerHandler.GetAll)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.GET("/:id/payouts", deps.PayoutHandler.GetDriverPayouts)
		}

		// Quote routes.
		quotes := v1.Group("/quotes")
		{
			quotes.POST("", deps.QuoteHandler.CreateQuote)
			quotes.GET("/:id", deps.QuoteHandler.GetQuote)
			quotes.GET("/:id/validation", deps.QuoteHandler.ValidateQuote)
		}

		// Pickup routes.
		pickups := v1.Group("/pickups")
		{
			pickups.POST("", deps.PickupHandler.BookPickup)
			pickups.GET("", deps.PickupHandler.GetAll)
			pickups.GET("/:id", deps.PickupHandler.GetPickup)
			pickups.GET("/:id/status", deps.PickupHandler.GetStatus)
			pickups.GET("/:id/receipt", deps.ReceiptHandler.GetReceipt)
			pickups.POST("/:id/claim", deps.PickupHandler.ClaimPickup)
			pickups.POST("/:id/complete", deps.PickupHandler.CompletePickup)
			pickups.POST("/:id/cancel", deps.PickupHandler.CancelPickup)
		}

		// Payout routes.
		payouts := v1.Group("/payouts")
		{
			payouts.POST("", deps.PayoutHandler.SettlePayout)
			payouts.GET("/:id", deps.PayoutHandler.GetPayout)
		}
	}

	return router
}

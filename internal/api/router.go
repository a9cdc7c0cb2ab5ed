package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"campus-laundry-backend/config"
	"campus-laundry-backend/internal/identity"
	"campus-laundry-backend/internal/mw"
	"campus-laundry-backend/internal/notification"
	"campus-laundry-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, resolver *identity.StoreResolver, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, resolver, pool, webpushOptions, cfg.Booking.Location)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handler.Login)
			auth.POST("/register", handler.Register)
		}

		machines := api.Group("/machines")
		{
			// The machine catalog changes only on reseed, so it is safe
			// to cache. Reservations and availability are not cached:
			// the client refreshes them immediately after every write.
			machines.GET("", caching, handler.ListMachines)
			machines.GET("/init", handler.InitMachines)
			machines.GET("/:number", handler.GetMachine)
		}

		reservations := api.Group("/reservations")
		{
			reservations.POST("", handler.CreateReservation)
			reservations.GET("", handler.ListReservations)
			reservations.GET("/availability", handler.GetAvailability)
			reservations.POST("/confirm", handler.ConfirmReservation)
			reservations.POST("/cleanup", handler.CleanupReservations)
			reservations.DELETE("/:id", handler.DeleteReservation)
		}

		lostfound := api.Group("/lostfound")
		{
			lostfound.POST("/report", handler.ReportLostItem)
			lostfound.GET("/reports", handler.ListLostItemReports)
			lostfound.GET("", handler.ListLostItems)
			lostfound.GET("/:id", handler.GetLostItem)
			lostfound.PUT("/:id/status", handler.UpdateLostItemStatus)
			lostfound.DELETE("/:id", handler.DeleteLostItem)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}

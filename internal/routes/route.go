package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/utsavhq/utsav-api/internal/container"
	"github.com/utsavhq/utsav-api/internal/handlers"
	"github.com/utsavhq/utsav-api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "utsav-api",
			})
		})
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Logger))

	bookingRoutes := protected.Group("/booking")
	{
		bookingRoutes.GET("/user", handlers.ListUserBookings(container.BookingService))
		bookingRoutes.GET("/admin", middleware.RequireAdmin(), handlers.ListAdminBookings(container.BookingService))
		bookingRoutes.POST("/request-booking", handlers.RequestBooking(container.BookingService))
		bookingRoutes.GET("/:bookingId", handlers.GetBooking(container.BookingService))
		bookingRoutes.PUT("/:bookingId", handlers.UpdateBooking(container.BookingService))
		bookingRoutes.PUT("/:bookingId/cancel", handlers.CancelBooking(container.BookingService))
	}

	serviceRoutes := protected.Group("/services")
	{
		serviceRoutes.GET("/search", handlers.SearchServices(container.CatalogRepo))
		serviceRoutes.GET("/venues/:id", handlers.GetVenue(container.CatalogRepo))
		serviceRoutes.GET("/vendors/:id", handlers.GetVendor(container.CatalogRepo))
	}

	return r
}

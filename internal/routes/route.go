package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/container"
	"github.com/venuehub/server/internal/handlers"
	"github.com/venuehub/server/internal/middleware"
	"github.com/venuehub/server/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{c.Config.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "venuehub-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Register(c.UserService))
		v1.POST("/login", handlers.Login(c.UserService, c.Config.IsProduction()))
		v1.POST("/logout", handlers.Logout())

		v1.GET("/venues", handlers.SearchVenues(c.VenueService))
		v1.GET("/venues/:id", handlers.GetVenue(c.VenueService))
		v1.GET("/venues/:id/booked-dates", handlers.GetBookedDates(c.BookingService))
		v1.GET("/venues/:id/reviews", handlers.GetVenueReviews(c.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(c.Config.JWTSecret))

	protected.GET("/profile", handlers.GetProfile(c.UserService))
	protected.PATCH("/profile", handlers.UpdateProfile(c.UserService))
	protected.GET("/ws", handlers.ConnectWebsocket(c.Hub))

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.CreateBooking(c.BookingService))
		bookingRoutes.GET("/", handlers.ListMyBookings(c.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(c.BookingService))
		bookingRoutes.PATCH("/:id/verify", handlers.VerifyAdvancePayment(c.BookingService))
		bookingRoutes.POST("/:id/balance", handlers.CreateBalanceOrder(c.BookingService))
		bookingRoutes.PATCH("/:id/balance/verify", handlers.VerifyBalancePayment(c.BookingService))
		bookingRoutes.PATCH("/:id/cancel", handlers.CancelBooking(c.BookingService))
	}

	vendorRoutes := protected.Group("/vendor")
	vendorRoutes.Use(middleware.RequireRole(models.RoleVendor, models.RoleAdmin))
	{
		vendorRoutes.POST("/venues", handlers.CreateVenue(c.VenueService))
		vendorRoutes.GET("/venues", handlers.ListMyVenues(c.VenueService))
		vendorRoutes.PATCH("/venues/:id", handlers.UpdateVenue(c.VenueService))
		vendorRoutes.DELETE("/venues/:id", handlers.DeleteVenue(c.VenueService))
		vendorRoutes.POST("/venues/:id/blocked-dates", handlers.BlockDates(c.VenueService))
		vendorRoutes.GET("/venues/:id/blocked-dates", handlers.ListBlockedDates(c.VenueService))
		vendorRoutes.DELETE("/venues/:id/blocked-dates/:blockedId", handlers.UnblockDates(c.VenueService))
		vendorRoutes.GET("/bookings", handlers.ListVendorBookings(c.BookingService))
		vendorRoutes.PATCH("/bookings/:id/cancel", handlers.VendorCancelBooking(c.BookingService))
		vendorRoutes.GET("/revenue", handlers.VendorRevenue(c.BookingService))
	}

	reviewRoutes := protected.Group("/reviews")
	{
		reviewRoutes.POST("/", handlers.CreateReview(c.ReviewService))
		reviewRoutes.GET("/", handlers.GetMyReviews(c.ReviewService))
		reviewRoutes.PATCH("/:id", handlers.UpdateReview(c.ReviewService))
		reviewRoutes.DELETE("/:id", handlers.DeleteReview(c.ReviewService))
	}

	savedRoutes := protected.Group("/saved-venues")
	{
		savedRoutes.GET("/", handlers.GetSavedVenues(c.SavedVenuesService))
		savedRoutes.POST("/:id", handlers.SaveVenue(c.SavedVenuesService))
		savedRoutes.DELETE("/:id", handlers.UnsaveVenue(c.SavedVenuesService))
	}

	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("/", handlers.ListNotifications(c.NotificationService))
		notificationRoutes.PATCH("/:id/read", handlers.MarkNotificationRead(c.NotificationService))
	}

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/venues/pending", handlers.ListPendingVenues(c.VenueService))
		adminRoutes.PATCH("/venues/:id/moderate", handlers.ModerateVenue(c.VenueService))
		adminRoutes.GET("/revenue", handlers.PlatformRevenue(c.BookingService))
		adminRoutes.GET("/reviews/pending", handlers.ListPendingReviews(c.ReviewService))
		adminRoutes.PATCH("/reviews/:id/moderate", handlers.ModerateReview(c.ReviewService))
	}

	return r
}

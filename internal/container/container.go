package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/redis/go-redis/v9"
	"github.com/venuehub/server/internal/config"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/payment"
	"github.com/venuehub/server/internal/services"
	"github.com/venuehub/server/internal/ws"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies, wired by plain constructor
// injection.
type Container struct {
	Logger *slog.Logger
	Config *config.Config
	Hub    *ws.Hub

	UserService         *services.UserService
	VenueService        *services.VenuesService
	BookingService      *services.BookingService
	ReviewService       *services.ReviewService
	SavedVenuesService  *services.SavedVenuesService
	NotificationService *services.NotificationService
}

func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	cld *cloudinary.Cloudinary,
) *Container {
	repo := models.MongodbNewRepo(mongoClient)
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	locker := services.NewRedisVenueLocker(redisClient)
	hub := ws.NewHub(logger)

	notificationService := services.NewNotificationService(repo, hub, logger)
	userService := services.NewUserService(repo, cfg.JWTSecret)
	venueService := services.NewVenuesService(repo, repo, cld, notificationService)
	bookingService := services.NewBookingService(repo, repo, repo, gateway, locker, notificationService, cfg.RazorpayKeySecret)
	reviewService := services.NewReviewService(repo, repo)
	savedVenuesService := services.NewSavedVenuesService(repo)

	return &Container{
		Logger:              logger,
		Config:              cfg,
		Hub:                 hub,
		UserService:         userService,
		VenueService:        venueService,
		BookingService:      bookingService,
		ReviewService:       reviewService,
		SavedVenuesService:  savedVenuesService,
		NotificationService: notificationService,
	}
}

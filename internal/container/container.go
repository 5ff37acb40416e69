package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	storage "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
	"github.com/utsavhq/utsav-api/internal/config"
	"github.com/utsavhq/utsav-api/internal/helpers"
	"github.com/utsavhq/utsav-api/internal/models"
	"github.com/utsavhq/utsav-api/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Config     *config.Config
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	CatalogRepo    models.CatalogRepo
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	storageClient *storage.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongoRepo := models.MongodbNewRepo(mongoDBClient)

	ingestor := helpers.NewIngestor(uploadStrategies(cfg, storageClient, cld), logger)
	bookingService := services.NewBookingService(
		mongoRepo, // bookings
		mongoRepo, // catalog
		mongoRepo, // categories
		mongoRepo, // locations
		supa,      // users
		mongoRepo, // event/photography type lookups
		ingestor,
		logger,
	)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cld,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		CatalogRepo:    mongoRepo,
		BookingService: bookingService,
	}
}

// uploadStrategies builds the ordered strategy list: local disk in
// development, object stores with fallback otherwise.
func uploadStrategies(cfg *config.Config, storageClient *storage.Client, cld *cloudinary.Cloudinary) []helpers.UploadStrategy {
	if cfg.IsDevelopment() {
		return []helpers.UploadStrategy{helpers.NewLocalDiskStrategy(cfg.UploadsDir)}
	}
	return []helpers.UploadStrategy{
		helpers.NewSupabaseStorageStrategy(storageClient, cfg.StorageBuckets),
		helpers.NewCloudinaryStrategy(cld),
	}
}

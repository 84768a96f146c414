package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/assets"
	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Viper reads configuration from environment variables with these defaults.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "ecommerce")
	viper.SetDefault("DATABASE_DSN", "catalog.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	uploadDir := viper.GetString("UPLOAD_DIR")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Initialize Product Repository ---
	productRepo, err := newProductRepository()
	if err != nil {
		log.Fatalf("Failed to initialize product store: %v", err)
	}

	// --- Initialize Asset Store ---
	assetStore, err := assets.NewDiskStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize asset store: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set; product event publishing disabled")
	}

	// --- Initialize Services and Handlers ---
	productService := services.NewProductService(productRepo, assetStore, events)
	productHandler := handlers.NewProductHandler(productService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New()) // unrestricted cross-origin access

	// Uploaded assets are served read-only under /uploads.
	app.Static("/uploads", assetStore.Dir())

	// --- API Routes ---
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// The consumer currently just records the product event stream; downstream
	// processing (search index refresh, cache invalidation) hangs off here.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for product events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received Product Event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newProductRepository builds the product store selected by STORE_DRIVER:
// "mongo" for the document store, "postgres" or "sqlite" for the relational
// alternatives (both auto-migrated), "memory" for a non-persistent local run.
func newProductRepository() (repositories.ProductRepository, error) {
	driver := viper.GetString("STORE_DRIVER")

	switch driver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("MONGO_URI")))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, err
		}
		log.Println("MongoDB connected")
		coll := client.Database(viper.GetString("MONGO_DB")).Collection("products")
		return repositories.NewMongoProductRepository(coll), nil

	case "postgres":
		db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			return nil, err
		}
		return repositories.NewGORMProductRepository(db), nil

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			return nil, err
		}
		return repositories.NewGORMProductRepository(db), nil

	case "memory":
		log.Println("Using in-memory product store; data will not survive a restart")
		return repositories.NewMockProductRepository(), nil

	default:
		log.Fatalf("Unknown STORE_DRIVER %q (expected mongo, postgres, sqlite, or memory)", driver)
		return nil, nil
	}
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/talenthive/hrbot-backend/database"
	"github.com/talenthive/hrbot-backend/internal/handlers"
	"github.com/talenthive/hrbot-backend/internal/jobs"
	"github.com/talenthive/hrbot-backend/internal/kvstore"
	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/recruit"
	"github.com/talenthive/hrbot-backend/internal/routes"
	"github.com/talenthive/hrbot-backend/internal/services"
	"github.com/talenthive/hrbot-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	err := godotenv.Load(".env")
	if err != nil {
		err = godotenv.Load("environments/.env.development")
		if err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	log.Println("------------------------------------------------")
	log.Println("BOT RESTARTED")
	log.Printf("🔍 TWILIO_ACCOUNT_SID exists: %v", os.Getenv("TWILIO_ACCOUNT_SID") != "")
	log.Printf("🔍 ZOHO_RECRUIT_BASE: %s", os.Getenv("ZOHO_RECRUIT_BASE"))
	log.Println("------------------------------------------------")

	// Pick the talent store: remote recruiting API when credentials are
	// present, otherwise memory or PostgreSQL
	var talentStore storage.TalentStore
	storageMode := ""

	if client, err := recruit.NewClientFromEnv(); err == nil {
		talentStore = client
		storageMode = "Zoho Recruit (Remote)"
	} else if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory talent store (not for production!)")
		memStore := storage.NewMemoryStore()
		seedJobs(memStore)
		talentStore = memStore
		storageMode = "In-Memory (Testing)"
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.JobOpening{},
			&models.Candidate{},
			&models.Application{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		talentStore = storage.NewDatabaseStore(database.DB)
		storageMode = "PostgreSQL Database"
	}
	log.Printf("✅ Talent store: %s", storageMode)

	// Keyed TTL store for sessions and OTP records: Redis when
	// configured, in-process memory otherwise
	var sessionStore kvstore.Store
	var cleanupJob *jobs.CleanupJob

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		sessionStore = kvstore.NewRedis(redisClient)
		cleanupJob = jobs.NewCleanupJob()
		log.Printf("✅ Session/OTP store: Redis (%s)", redisAddr)
	} else {
		memKV := kvstore.NewMemory()
		sessionStore = memKV
		cleanupJob = jobs.NewCleanupJob(memKV)
		log.Println("✅ Session/OTP store: In-Memory")
	}

	// SMS notifier: degrade to log-only when Twilio is not configured
	var notifier services.Notifier
	smsConfigured := false
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio not configured - OTP codes will only be logged: %v", err)
		notifier = services.LogNotifier{}
	} else {
		notifier = twilioService
		smsConfigured = true
		log.Println("✅ Twilio service initialized")
	}

	// Core services
	sessionManager := services.NewSessionManager(sessionStore)
	otpService := services.NewOTPService(sessionStore)
	bot := services.NewBotService(talentStore, sessionManager, otpService, notifier)

	cleanupJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "HR Bot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Routes
	conversationHandler := handlers.NewConversationHandler(bot)
	healthHandler := handlers.NewHealthHandler("1.0.0", storageMode, smsConfigured)
	routes.SetupRoutes(app, conversationHandler, healthHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 HR Bot Backend starting on port %s", port)
	log.Printf("📊 Talent store: %s", storageMode)
	log.Printf("📱 SMS: %s", smsStatus(smsConfigured))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func smsStatus(configured bool) string {
	if !configured {
		return "Not configured"
	}
	return "Configured"
}

// seedJobs loads a handful of openings so the memory mode has
// something to browse.
func seedJobs(store *storage.MemoryStore) {
	store.AddJob(&models.JobOpening{
		Title:          "Java Developer",
		Description:    "Build and maintain backend services on the JVM.",
		RequiredSkills: "Java, Spring, SQL",
	})
	store.AddJob(&models.JobOpening{
		Title:          "Sales Executive",
		Description:    "Own the full sales cycle for mid-market accounts.",
		RequiredSkills: "Sales, Negotiation, CRM",
	})
	store.AddJob(&models.JobOpening{
		Title:          "HR Coordinator",
		Description:    "Support recruiting operations and onboarding.",
		RequiredSkills: "HR, Scheduling, Communication",
	})
}

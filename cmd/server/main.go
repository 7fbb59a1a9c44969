package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/api/handlers"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/api/middleware"
	job "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/jobs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/queue"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/scheduler"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    20 * 1024 * 1024, // 20 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	errorLogRepo := repository.NewErrorLogRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(*cfg, apiKeyRepo)
	storageService := service.NewStorageService(*cfg, mediaAssetRepo)
	generateService := service.NewGenerateService(*cfg, db, topicRepo, postRepo, apiKeyService)
	postService := service.NewPostService(db, postRepo, topicRepo, errorLogRepo)
	platformService := service.NewPlatformService(*cfg)
	linkedinService := service.NewLinkedinService(*cfg, apiKeyService)
	instagramService := service.NewInstagramService(*cfg, apiKeyService)
	facebookService := service.NewFacebookService(*cfg, apiKeyService)

	publishers := map[string]scheduler.Publisher{
		models.PlatformLinkedin:  linkedinService,
		models.PlatformInstagram: instagramService,
		models.PlatformFacebook:  facebookService,
	}
	sched := scheduler.New(postRepo, publishers,
		time.Duration(cfg.CheckInterval)*time.Second, cfg.MaxRetryAttempts)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	platform := handlers.NewPlatformHandler(platformService, *cfg)
	app.Get("/auth/:platform", platform.ConnectPlatform)
	app.Get("/auth/:platform/callback", platform.CallbackHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":            "ok",
			"scheduler_running": sched.Running(),
		})
	})

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Get("/api_key/status", apiKeys.KeysStatus)
	api.Post("/api_key/update", apiKeys.UpdateApiKey)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	generate := handlers.NewGenerateHandler(generateService)
	api.Post("/generate", generate.Generate)
	api.Get("/topics", generate.ListTopics)
	api.Get("/topics/info", generate.TopicInfo)
	api.Post("/topics/remove", generate.RemoveTopic)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/stats", post.PostStats)
	api.Get("/posts/upcoming", post.UpcomingPosts)
	api.Get("/posts/info", post.PostInfo)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/approve", post.ApprovePost)
	api.Post("/posts/cancel", post.CancelPost)
	api.Post("/posts/retry", post.RetryPost)
	api.Post("/posts/remove", post.RemovePost)

	manualPost := handlers.NewManualPostHandler(postService, storageService, client)
	api.Post("/manual-post", manualPost.CreateManualPost)
	api.Post("/manual-post/upload", manualPost.UploadImage)

	// cron jobs
	mediaCleanupJob := job.NewMediaCleanupJob(mediaAssetRepo, storageService)

	// queue
	queueW := queue.NewQueue(postRepo, sched)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", mediaCleanupJob.CleanupOrphans)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	if err := postRepo.ResetProcessing(context.Background()); err != nil {
		log.Printf("Could not reset in-flight posts: %v", err)
	}
	sched.Start()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db, sched, c)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, sched *scheduler.Scheduler, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	sched.Stop()
	c.Stop()

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}

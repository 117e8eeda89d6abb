package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"civicapp-be/config"
	"civicapp-be/controllers"
	"civicapp-be/geocoder"
	"civicapp-be/middlewares"
	"civicapp-be/models"
	"civicapp-be/routes"
	"civicapp-be/services"
	"civicapp-be/store"
)

const classifierDelay = 2 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		issues  store.IssueStore
		workers store.WorkerStore
		rdb     *redis.Client
		geo     geocoder.Client
	)

	if cfg.MockMode {
		mem := store.NewMemoryIssueStore(cfg.MockLatency)
		if err := store.SeedIssues(ctx, mem, time.Now()); err != nil {
			log.Fatalf("Failed to seed demo issues: %v", err)
		}
		issues = mem
		workers = store.NewMemoryWorkerStore(store.SeedWorkers())
		geo = geocoder.Static{Coords: &models.Coordinates{Lat: 40.7128, Lng: -74.0060, Accuracy: 25}}
		log.Info("Mock mode: in-memory store seeded with demo data")
	} else {
		if cfg.MongoURI == "" {
			log.Fatal("Please define the MONGODB_URI environment variable")
		}
		db, err := config.ConnectDB(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		issues = store.NewMongoIssueStore(db)
		workers = store.NewMongoWorkerStore(db)

		if cfg.RedisAddr != "" {
			rdb, err = config.ConnectRedis(cfg.RedisAddr, cfg.RedisPass)
			if err != nil {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
		}
		geo = geocoder.NewHTTPClient(cfg.GeocoderURL, cfg.GeocoderAPIKey)
	}

	classifier := services.NewClassifier(issues, classifierDelay)
	submit := services.NewSubmitService(ctx, issues, geo, classifier)
	summary := services.NewSummaryRefresher(issues, rdb, cfg.SummaryRefreshInterval)
	go summary.Run(ctx)

	r := gin.Default()
	r.Use(cors.Default())

	issueController := controllers.NewIssueController(issues, submit)
	adminController := controllers.NewAdminController(issues, workers, summary)
	workerController := controllers.NewWorkerController(issues, workers)
	authController := controllers.NewAuthController(cfg.JWTSecret, cfg.AdminPasswordHash, cfg.MockMode)

	rateLimiter := middlewares.ReportRateLimiter(rdb, cfg.RedisQueue, cfg.ReportRateLimit)

	routes.IssueRoutes(r, issueController, rateLimiter)
	routes.AdminRoutes(r, adminController, authController, cfg.JWTSecret)
	routes.WorkerRoutes(r, workerController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
}

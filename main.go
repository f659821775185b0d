package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"smartfare-backend/config"
	"smartfare-backend/database"
	"smartfare-backend/handlers"
	"smartfare-backend/middleware"
	"smartfare-backend/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Starting Smartfare backend")
	log.Printf("Gemini models: %v", cfg.GeminiModels)

	// Connect to database. Without a URI the search service falls back
	// to live AI offer discovery.
	var store services.TrainStore
	if cfg.MongoURI != "" {
		if err := database.Connect(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
		store = database.NewTrainCollection(database.GetCollection(cfg.MongoCollection))
	}

	// Wire services
	gemini := services.NewGeminiService(cfg)
	searchService := services.NewSearchService(store, gemini)
	handlers.Init(searchService, cfg.MongoDatabase, cfg.MongoCollection)

	// Setup Gin router
	router := setupRouter()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupRouter() *gin.Engine {
	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(10, 20))

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthSearch)
		api.GET("/health/db-stats", handlers.DBStats)
		api.GET("/health/trains", handlers.ListTrains)
		api.POST("/search", handlers.SearchTrains)
	}

	// Serve static files (dashboard)
	router.Static("/js", "./public/js")
	router.StaticFile("/", "./public/index.html")
	router.StaticFile("/index.html", "./public/index.html")

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

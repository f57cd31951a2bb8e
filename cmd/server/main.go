package main

import (
	"alizia-planner/internal/config"
	"alizia-planner/internal/course"
	"alizia-planner/internal/domain"
	"alizia-planner/internal/logger"
	"alizia-planner/internal/middleware"
	"alizia-planner/internal/reference"
	"alizia-planner/internal/remote"
	"alizia-planner/internal/session"
	"alizia-planner/internal/worker"
	"alizia-planner/redis"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig
	log := logger.New(cfg.Environment)

	// Initialize Redis
	redisClient := redis.InitRedis(context.Background(), cfg.RedisAddress, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Background generation runs on the pool
	pool := worker.NewPool(cfg.WorkerCount, 16, log)
	defer pool.Shutdown()

	apiClient := remote.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.RequestTimeout)
	catalog := reference.NewCatalog(apiClient, redis.NewCache(redisClient), cfg.ReferenceCacheTTL, log)

	// One session per document kind
	sessions := map[domain.Kind]session.Service{
		domain.KindCoordination: session.New(apiClient.Documents(domain.KindCoordination), pool, log),
		domain.KindLessonPlan:   session.New(apiClient.Documents(domain.KindLessonPlan), pool, log),
	}

	sessionHandler := session.NewHandler(sessions, catalog, log)
	courseHandler := course.NewHandler(course.NewService(apiClient, catalog, log))
	referenceHandler := reference.NewHandler(catalog)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.ErrorHandler(log))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if cfg.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Session routes
	router.POST("/sessions/:kind/open/:id", sessionHandler.Open)
	router.GET("/sessions/:kind", sessionHandler.Show)
	router.DELETE("/sessions/:kind", sessionHandler.Close)
	router.POST("/sessions/:kind/chat", sessionHandler.Chat)
	router.PATCH("/sessions/:kind/name", sessionHandler.Rename)
	router.PATCH("/sessions/:kind/classes", sessionHandler.RenameClass)
	router.POST("/sessions/:kind/generate", sessionHandler.Generate)
	router.POST("/sessions/:kind/publish", sessionHandler.Publish)

	// Course routes
	router.GET("/courses/:id", courseHandler.Show)

	// Reference routes
	router.POST("/references/refresh", referenceHandler.Refresh)

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ingenio_ai_server/api"
	"ingenio_ai_server/config"
	"ingenio_ai_server/internal/ai"
	internalapi "ingenio_ai_server/internal/api"
	"ingenio_ai_server/internal/session"
	"ingenio_ai_server/internal/store"
)

func main() {
	// Load .env before viper so file-provided variables are visible as env.
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// --- Dependency Initialization ---
	aiGenerator := ai.NewGenerator(cfg.OpenAIKey, cfg.ModelID)
	sessionStore := session.NewStore()
	projectStore := store.NewProjectStore(cfg.ProjectsDir)

	apiHandler := internalapi.NewAPIHandler(aiGenerator, sessionStore, projectStore)

	// --- Start API Server ---
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	api.RegisterRoutes(router, apiHandler)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Generation requests stream from the model and can run long.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server listen error: %s\n", err)
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hibari-app/hibari/internal/api"
	"github.com/hibari-app/hibari/internal/core"
	"github.com/hibari-app/hibari/internal/importer"
	"github.com/hibari-app/hibari/internal/providers"
	"github.com/hibari-app/hibari/internal/providers/animeplanet"
	"github.com/hibari-app/hibari/internal/providers/kitsu"
	"github.com/hibari-app/hibari/internal/providers/myanimelist"
	"github.com/hibari-app/hibari/internal/store"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// A .env file can supply HIBARI_* overrides before viper runs.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// Register all available tracking providers here.
	cfg := app.Config()
	engine := importer.New(store.New(app.DB()))
	providers.Register(myanimelist.New(engine, cfg.Providers.MALClientID, cfg.Providers.PageLimit))
	providers.Register(kitsu.New(engine, cfg.Providers.PageLimit))
	providers.Register(animeplanet.New(cfg.Providers.UserAgent))

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited.")
}

// Package main runs the REST and WebSocket server for the deck legality
// service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards/localdata"
	"github.com/anrtools/anr-companion/internal/anr/cards/nrdb"
	"github.com/anrtools/anr-companion/internal/anr/legality"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/api"
	"github.com/anrtools/anr-companion/internal/config"
	"github.com/anrtools/anr-companion/internal/events"
	"github.com/anrtools/anr-companion/internal/metrics"
	"github.com/anrtools/anr-companion/internal/storage"
	"github.com/anrtools/anr-companion/internal/version"
)

var (
	port      = flag.Int("port", 0, "API server port (overrides config)")
	dbPath    = flag.String("db-path", "", "Database path (default: ~/.anr-companion/anr-companion.db)")
	dataDir   = flag.String("data-dir", "", "Directory with card data dumps to watch (overrides config)")
	debugMode = flag.Bool("debug-mode", false, "Enable verbose debug logging")
)

func main() {
	flag.Parse()

	if *debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	fmt.Printf("ANR Companion API Server %s\n", version.GetVersion())
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	finalPort := cfg.API.Port
	if *port != 0 {
		finalPort = *port
	}

	finalDBPath := *dbPath
	if finalDBPath == "" {
		finalDBPath, err = cfg.DatabasePath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}
	fmt.Printf("Database: %s\n", finalDBPath)

	dbConfig := storage.DefaultConfig(finalDBPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	engineMetrics := metrics.NewEngineMetrics()
	dispatcher := events.NewDispatcher()
	dispatcher.Register(reloadCounter{metrics: engineMetrics})

	store := snapshot.NewStore()
	loader := snapshot.NewLoader(store, db, dispatcher, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Publish whatever the local database holds; an empty snapshot is fine
	// until the first refresh.
	if _, err := loader.Reload(ctx); err != nil {
		log.Printf("Initial card data load failed: %v", err)
	}

	// Watch a data dump directory when one is configured.
	finalDataDir := *dataDir
	if finalDataDir == "" {
		finalDataDir = cfg.Data.Dir
	}
	if finalDataDir != "" && cfg.Data.Watch {
		watcher := snapshot.NewWatcher(localdata.New(finalDataDir), loader, slog.Default())
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Data directory watcher stopped: %v", err)
			}
		}()
		fmt.Printf("Watching:  %s\n", finalDataDir)
	}

	engine := legality.NewEngine(legality.Options{Now: time.Now})
	client := nrdb.NewClient(cfg.NRDB.BaseURL)

	apiConfig := &api.Config{
		Port:           finalPort,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Refresh:        refreshFunc(client, db, loader, engineMetrics),
	}
	server := api.NewServer(apiConfig, store, engine, db, engineMetrics)

	// Forward snapshot events to WebSocket clients.
	dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", finalPort)
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}

// refreshFunc pulls fresh card data from upstream, stores it, and
// republishes the snapshot.
func refreshFunc(client *nrdb.Client, db *storage.DB, loader *snapshot.Loader, m *metrics.EngineMetrics) func(r *http.Request) error {
	return func(r *http.Request) error {
		ctx := r.Context()
		m.IncrementNRDBRequests()

		bundle, err := client.FetchBundle(ctx)
		if err != nil {
			m.IncrementNRDBErrors()
			return fmt.Errorf("fetch card data: %w", err)
		}

		if err := db.UpsertCards(ctx, bundle.Cards); err != nil {
			return fmt.Errorf("store cards: %w", err)
		}
		if err := db.UpsertSets(ctx, bundle.Sets); err != nil {
			return fmt.Errorf("store card sets: %w", err)
		}
		if err := db.SaveMWL(ctx, &bundle.MWL); err != nil {
			return fmt.Errorf("store banned list: %w", err)
		}

		loader.ApplyBundle(bundle)
		return nil
	}
}

// reloadCounter counts snapshot swaps in the engine metrics.
type reloadCounter struct {
	metrics *metrics.EngineMetrics
}

func (c reloadCounter) OnEvent(events.Event) error {
	c.metrics.IncrementSnapshotReloads()
	return nil
}

func (c reloadCounter) Name() string { return "ReloadCounter" }

func (c reloadCounter) ShouldHandle(eventType string) bool {
	return eventType == events.TypeSnapshotReloaded
}

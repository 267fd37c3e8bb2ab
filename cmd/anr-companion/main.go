package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards/localdata"
	"github.com/anrtools/anr-companion/internal/anr/cards/nrdb"
	"github.com/anrtools/anr-companion/internal/anr/decklist"
	"github.com/anrtools/anr-companion/internal/anr/legality"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/config"
	"github.com/anrtools/anr-companion/internal/storage"
	"github.com/anrtools/anr-companion/internal/version"
)

var (
	debugMode = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	dbPath    = flag.String("db-path", "", "Database path (default: ~/.anr-companion/anr-companion.db)")
	dataDir   = flag.String("data-dir", "", "Directory with cards.json/packs.json dumps, used instead of the database")
	nrdbURL   = flag.String("nrdb-url", "", "Card database API root (default: public NetrunnerDB API)")
)

func usage() {
	fmt.Fprintf(os.Stderr, `ANR Companion %s - deck legality checker

Usage:
  anr-companion [flags] refresh          Pull card data from NetrunnerDB into the local database
  anr-companion [flags] check <file>     Check a plain-text deck list
  anr-companion [flags] decks            List saved decks

Flags:
`, version.GetVersion())
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	switch flag.Arg(0) {
	case "refresh":
		runRefresh(cfg)
	case "check":
		if flag.Arg(1) == "" {
			log.Fatal("check requires a deck list file")
		}
		runCheck(cfg, flag.Arg(1))
	case "decks":
		runDecks(cfg)
	default:
		usage()
		os.Exit(2)
	}
}

// openDatabase opens the configured SQLite database, applying migrations.
func openDatabase(cfg *config.Config) *storage.DB {
	path := *dbPath
	if path == "" {
		var err error
		path, err = cfg.DatabasePath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return db
}

// runRefresh pulls the full card pool from the card database API and stores
// it locally.
func runRefresh(cfg *config.Config) {
	db := openDatabase(cfg)
	defer func() { _ = db.Close() }()

	baseURL := *nrdbURL
	if baseURL == "" {
		baseURL = cfg.NRDB.BaseURL
	}
	client := nrdb.NewClient(baseURL)

	timeout, err := cfg.NRDBTimeout()
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Println("Fetching card data...")
	bundle, err := client.FetchBundle(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch card data: %v", err)
	}

	if err := db.UpsertCards(ctx, bundle.Cards); err != nil {
		log.Fatalf("Failed to store cards: %v", err)
	}
	if err := db.UpsertSets(ctx, bundle.Sets); err != nil {
		log.Fatalf("Failed to store card sets: %v", err)
	}
	if err := db.SaveMWL(ctx, &bundle.MWL); err != nil {
		log.Fatalf("Failed to store banned list: %v", err)
	}

	fmt.Printf("Stored %d cards, %d sets", len(bundle.Cards), len(bundle.Sets))
	if bundle.MWL.Name != "" {
		fmt.Printf(", banned list %q", bundle.MWL.Name)
	}
	fmt.Println()
}

// loadSnapshot builds a snapshot from the data directory when one is
// configured, and from the local database otherwise.
func loadSnapshot(cfg *config.Config) *snapshot.Snapshot {
	dir := *dataDir
	if dir == "" {
		dir = cfg.Data.Dir
	}
	if dir != "" {
		bundle, err := localdata.New(dir).LoadBundle()
		if err != nil {
			log.Fatalf("Failed to load card data from %s: %v", dir, err)
		}
		mwl := bundle.MWL
		return snapshot.New(bundle.Cards, bundle.Sets, &mwl)
	}

	db := openDatabase(cfg)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	store := snapshot.NewStore()
	loader := snapshot.NewLoader(store, db, nil, nil)
	snap, err := loader.Reload(ctx)
	if err != nil {
		log.Fatalf("Failed to load card data: %v", err)
	}
	if snap.CardCount() == 0 {
		log.Fatal("No card data loaded; run 'anr-companion refresh' first")
	}
	return snap
}

// runCheck checks one deck list file and prints the verdict per format.
func runCheck(cfg *config.Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read deck list: %v", err)
	}

	snap := loadSnapshot(cfg)
	parsed, err := decklist.NewParser(snap).Parse(string(data))
	if err != nil {
		log.Fatalf("Failed to parse deck list: %v", err)
	}
	for _, warning := range parsed.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	for _, parseErr := range parsed.Errors {
		fmt.Printf("error: %s\n", parseErr)
	}

	engine := legality.NewEngine(legality.Options{Now: time.Now})
	status := engine.CalculateDeckStatus(parsed.Deck, snap.Sets(), snap.MWL())
	printDeckStatus(parsed.Deck, status)

	if status.Overall == legality.StatusInvalid {
		os.Exit(1)
	}
}

// runDecks lists saved decks with their stored verdicts.
func runDecks(cfg *config.Config) {
	db := openDatabase(cfg)
	defer func() { _ = db.Close() }()

	decks, err := db.ListDecks(context.Background())
	if err != nil {
		log.Fatalf("Failed to list decks: %v", err)
	}
	if len(decks) == 0 {
		fmt.Println("No saved decks.")
		return
	}

	for _, deck := range decks {
		overall := "unchecked"
		if deck.Status != nil {
			overall = deck.Status.Overall
		}
		fmt.Printf("%-36s  %-30s  %s\n", deck.ID, deck.Name, overall)
	}
}

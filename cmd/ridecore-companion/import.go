package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/config"
	"github.com/ramonehamilton/RideCore-Companion/internal/storage"
)

// runImportCommand loads the JSON catalog and imports it into the card
// database.
func runImportCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "Catalog JSON file (default: configured file_path)")
	dbPath := fs.String("db", "", "Card database path (default: configured db_path)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *catalogPath == "" {
		*catalogPath = cfg.Catalog.FilePath
	}
	if *dbPath == "" {
		*dbPath = cfg.Catalog.DBPath
	}
	if *dbPath == "" {
		log.Fatal("No database path: set catalog.db_path in the config or pass -db")
	}

	catalog, err := cards.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	dbConfig := storage.DefaultConfig(*dbPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer func() { _ = db.Close() }()

	records := make([]cards.Card, 0, catalog.Len())
	for _, card := range catalog.Cards() {
		records = append(records, *card)
	}

	n, err := db.ImportCatalog(context.Background(), records)
	if err != nil {
		log.Fatalf("Error importing catalog: %v", err)
	}
	fmt.Printf("Imported %d cards from %s into %s\n", n, *catalogPath, *dbPath)
}

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
	"github.com/ramonehamilton/RideCore-Companion/internal/version"
)

var (
	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")
	configPath     = flag.String("config", "", "Path to config.toml (default: ~/.ridecore-companion/config.toml)")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *debugModeShort {
		*debugMode = true
	}
	if *showVersion {
		fmt.Printf("ridecore-companion %s\n", version.GetVersion())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "browse":
		runBrowseCommand(cfg, args[1:])
	case "deck":
		runDeckCommand(cfg, args[1:])
	case "import":
		runImportCommand(cfg, args[1:])
	case "export":
		runExportCommand(cfg, args[1:])
	case "proxy":
		runProxyCommand(cfg, args[1:])
	case "curves":
		runCurvesCommand(args[1:])
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog prefers the SQLite catalog when configured, falling back
// to the JSON file.
func loadCatalog(cfg *config.Config) (*cards.Catalog, error) {
	if cfg.Catalog.DBPath != "" {
		db, err := openCatalogDB(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()

		records, err := db.LoadCatalog(context.Background())
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			ptrs := make([]*cards.Card, len(records))
			for i := range records {
				ptrs[i] = &records[i]
			}
			return cards.NewCatalog(ptrs), nil
		}
		if *debugMode {
			log.Printf("Card database %s is empty, falling back to %s", cfg.Catalog.DBPath, cfg.Catalog.FilePath)
		}
	}
	return cards.Load(cfg.Catalog.FilePath)
}

func openCatalogDB(cfg *config.Config) (*storage.DB, error) {
	dbConfig := storage.DefaultConfig(cfg.Catalog.DBPath)
	dbConfig.AutoMigrate = true
	return storage.Open(dbConfig)
}

func printUsage() {
	fmt.Println("RideCore Companion - deck building for the RideCore card game")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ridecore-companion [flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  browse              Browse and filter the card catalog")
	fmt.Println("  deck                Inspect and edit saved decks")
	fmt.Println("  import              Import the JSON catalog into the card database")
	fmt.Println("  export              Export a deck list to CSV or JSON")
	fmt.Println("  proxy               Render printable proxy sheets for a deck")
	fmt.Println("  curves              Render XP/HP progression charts")
	fmt.Println("  help                Show this help")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ramonehamilton/RideCore-Companion/internal/config"
	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
	"github.com/ramonehamilton/RideCore-Companion/internal/proxy"
)

// runProxyCommand renders printable proxy sheets for a saved deck.
func runProxyCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("proxy", flag.ExitOnError)
	outputDir := fs.String("output-dir", ".", "Directory for the generated sheets")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		log.Fatal("Usage: proxy [flags] <deck name>")
	}
	deckName := fs.Arg(0)

	store := deck.NewStore(cfg.Deck.Dir, deck.Limits{
		Main:      cfg.Deck.MainLimit,
		Trigger:   cfg.Deck.TriggerLimit,
		MaxCopies: cfg.Deck.MaxCopies,
	})
	d, err := store.Load(deckName)
	if err != nil {
		log.Fatalf("Error loading deck: %v", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	// One image per physical copy, resolved against the local image base.
	paths := d.ImagePaths(catalog)
	if cfg.Images.LocalBase != "" {
		for i, p := range paths {
			paths[i] = localImagePath(cfg.Images.LocalBase, p)
		}
	}

	gen := proxy.NewGenerator(*outputDir, nil)
	sheets, err := gen.Generate(deckName, paths)
	if err != nil {
		log.Fatalf("Error generating proxy sheets: %v", err)
	}

	fmt.Printf("Wrote %d proxy sheets:\n", len(sheets))
	for _, sheet := range sheets {
		fmt.Printf("  %s\n", sheet)
	}
}

// localImagePath joins a catalog image identifier onto the local base.
func localImagePath(base, identifier string) string {
	return filepath.Join(base, filepath.FromSlash(identifier))
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ramonehamilton/RideCore-Companion/internal/config"
	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
	"github.com/ramonehamilton/RideCore-Companion/internal/export"
)

// runExportCommand writes a saved deck's list to CSV or JSON.
func runExportCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "Export format: csv or json")
	output := fs.String("output", "", "Output file ('-' for stdout; default: timestamped name in the current directory)")
	overwrite := fs.Bool("overwrite", false, "Overwrite the output file if it exists")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		log.Fatal("Usage: export [flags] <deck name>")
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

	list := export.BuildDeckList(deckName, d, catalog)

	exportFormat := export.Format(*format)
	var payload interface{} = list
	if exportFormat == export.FormatCSV {
		payload = list.Rows
	}

	if *output == "-" {
		if err := export.ExportToWriter(os.Stdout, exportFormat, payload, true); err != nil {
			log.Fatalf("Error exporting deck: %v", err)
		}
		return
	}

	path := *output
	if path == "" {
		path = export.GenerateFilename(deck.SanitizeName(deckName), exportFormat)
	}

	exporter := export.NewExporter(export.Options{
		Format:     exportFormat,
		FilePath:   path,
		PrettyJSON: true,
		Overwrite:  *overwrite,
	})
	if err := exporter.Export(payload); err != nil {
		log.Fatalf("Error exporting deck: %v", err)
	}
	fmt.Printf("Exported deck %q to %s\n", deckName, path)
}

// Command cardscraper maintains the card catalog: it scrapes set
// lists and effect text from the wiki, harvests card scans from the
// gallery site, normalizes image files and rewrites catalog image
// paths.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/imaging"
	"github.com/ramonehamilton/RideCore-Companion/internal/scraper"
)

var catalogPath = flag.String("catalog", "ridecore_cards.json", "Catalog JSON file to read and update")

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "set":
		runSetCommand(ctx, args[1:])
	case "effects":
		runEffectsCommand(ctx)
	case "harvest":
		runHarvestCommand(ctx, args[1:])
	case "rewrite":
		runRewriteCommand(args[1:])
	case "upscale":
		runUpscaleCommand(args[1:])
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// runSetCommand scrapes a set page and appends its cards to the
// catalog.
func runSetCommand(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	setCode := fs.String("code", "", "Set code recorded on the scraped cards (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 || *setCode == "" {
		log.Fatal("Usage: cardscraper set -code <set code> <wiki set path>")
	}

	records := loadRecords()
	known := make(map[string]bool, len(records))
	nextNumber := 0
	for _, r := range records {
		known[r.Name] = true
		if r.Number > nextNumber {
			nextNumber = r.Number
		}
	}

	s := scraper.New(scraper.DefaultOptions())
	stubs, err := s.FetchSet(ctx, fs.Arg(0))
	if err != nil {
		log.Fatalf("Error scraping set page: %v", err)
	}

	added := 0
	for _, stub := range stubs {
		if known[stub.Name] {
			continue
		}
		nextNumber++
		records = append(records, cards.Card{
			Number: nextNumber,
			Name:   stub.Name,
			Grade:  cards.Grade(stub.Grade),
			Type:   stub.Type,
			Clan:   stub.Clan,
			Set:    *setCode,
		})
		added++
	}

	saveRecords(records)
	fmt.Printf("Added %d new cards from %s (catalog now %d cards)\n", added, fs.Arg(0), len(records))
}

// runEffectsCommand fills in missing effect text from card pages.
func runEffectsCommand(ctx context.Context) {
	records := loadRecords()

	s := scraper.New(scraper.DefaultOptions())
	n, err := s.EnrichEffects(ctx, records)
	if err != nil {
		log.Fatalf("Error enriching effects: %v", err)
	}

	saveRecords(records)
	fmt.Printf("Enriched %d of %d cards with effect text\n", n, len(records))
}

// runHarvestCommand downloads card scans from a JS-rendered gallery.
func runHarvestCommand(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("harvest", flag.ExitOnError)
	outDir := fs.String("output-dir", ".", "Directory that receives cardimg/<set>/")
	setCode := fs.String("code", "", "Set code for the harvested images (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 || *setCode == "" {
		log.Fatal("Usage: cardscraper harvest -code <set code> [-output-dir dir] <gallery URL>")
	}

	h := scraper.NewHarvester(*outDir)
	if err := h.Connect(); err != nil {
		log.Fatalf("Error starting browser: %v", err)
	}
	defer h.Close()

	n, err := h.HarvestSet(ctx, fs.Arg(0), *setCode)
	if err != nil {
		log.Fatalf("Error harvesting set: %v", err)
	}
	fmt.Printf("Saved %d images for set %s under %s\n", n, *setCode, *outDir)
}

// runRewriteCommand points catalog image fields at the canonical
// per-set layout and reports records whose file is missing locally.
func runRewriteCommand(args []string) {
	fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
	localBase := fs.String("local-base", "", "Image base directory to check for missing files")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	records := loadRecords()
	changed, missing := scraper.RewriteImagePaths(records, *localBase)
	saveRecords(records)

	fmt.Printf("Rewrote %d image paths\n", changed)
	if len(missing) > 0 {
		fmt.Printf("%d cards have no local image:\n", len(missing))
		for _, name := range missing {
			fmt.Printf("  %s\n", name)
		}
	}
}

// runUpscaleCommand rescales undersized card scans in place.
func runUpscaleCommand(args []string) {
	fs := flag.NewFlagSet("upscale", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		log.Fatal("Usage: cardscraper upscale <image directory>")
	}

	n, err := imaging.NewUpscaler(nil).UpscaleDir(fs.Arg(0))
	if err != nil {
		log.Fatalf("Error upscaling images: %v", err)
	}
	fmt.Printf("Upscaled %d images under %s\n", n, fs.Arg(0))
}

// loadRecords reads the catalog JSON as a flat record list, preserving
// file order.
func loadRecords() []cards.Card {
	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Fatalf("Error reading catalog: %v", err)
	}

	var records []cards.Card
	if err := json.Unmarshal(data, &records); err != nil {
		log.Fatalf("Error parsing catalog: %v", err)
	}
	return records
}

func saveRecords(records []cards.Card) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding catalog: %v", err)
	}
	if err := os.WriteFile(*catalogPath, data, 0o644); err != nil {
		log.Fatalf("Error writing catalog: %v", err)
	}
}

func printUsage() {
	fmt.Println("cardscraper - catalog data collection tools")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cardscraper [flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  set       Scrape a wiki set page into the catalog")
	fmt.Println("  effects   Fill in missing effect text from card pages")
	fmt.Println("  harvest   Download card scans from the gallery site")
	fmt.Println("  rewrite   Rewrite catalog image paths to cardimg/<set>/<n>.png")
	fmt.Println("  upscale   Upscale undersized card images in place")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

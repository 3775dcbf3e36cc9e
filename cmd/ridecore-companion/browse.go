package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/cards/imagecache"
	"github.com/ramonehamilton/RideCore-Companion/internal/cards/query"
	"github.com/ramonehamilton/RideCore-Companion/internal/cards/remote"
	"github.com/ramonehamilton/RideCore-Companion/internal/config"
	"github.com/ramonehamilton/RideCore-Companion/internal/events"
	"github.com/ramonehamilton/RideCore-Companion/internal/gallery"
)

// runBrowseCommand filters the catalog and prints the matching cards.
func runBrowseCommand(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	search := fs.String("search", "", "Substring match on card name (case-insensitive)")
	grade := fs.Int("grade", query.AnyGrade, "Exact grade filter (-1 = any)")
	trigger := fs.String("trigger", "", "Trigger filter: Critical, Draw, Stand, Heal, Over or Non-Trigger")
	clan := fs.String("clan", "", "Exact clan filter")
	set := fs.String("set", "", "Exact set filter")
	sortBySet := fs.Bool("sort-set", false, "Sort results by set then number instead of catalog order")
	limit := fs.Int("limit", 0, "Maximum results to display (0 = all)")
	showEffects := fs.Bool("effects", false, "Include effect text in the listing")
	resolveImages := fs.Bool("resolve-images", false, "Resolve card images to local files (fetching missing ones)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	criteria := query.NewCriteria()
	criteria.SearchTerm = *search
	criteria.Grade = *grade
	criteria.Trigger = query.TriggerFilter(*trigger)
	criteria.Clan = *clan
	criteria.Set = *set

	results := query.Run(catalog, criteria)
	if *sortBySet {
		query.SortBySet(results)
	}

	fmt.Printf("Matched %d of %d cards\n\n", len(results), catalog.Len())
	displayCards(results, *limit, *showEffects)

	if *resolveImages {
		resolveCardImages(cfg, results)
	}
}

// resolveCardImages runs the matched cards through the gallery's
// resolver pipeline and reports where each image ended up.
func resolveCardImages(cfg *config.Config, results []*cards.Card) {
	var fetcher imagecache.Fetcher
	if cfg.Images.RemoteBase != "" {
		fetcher = remote.NewClient(remote.ClientOptions{
			BaseURL:   cfg.Images.RemoteBase,
			RateLimit: rate.Limit(10),
		})
	}

	cache, err := imagecache.New(imagecache.Options{
		LocalBase: cfg.Images.LocalBase,
		CacheDir:  cfg.Images.CacheDir,
		MaxSize:   int64(cfg.Images.MaxCacheMB) * 1024 * 1024,
		Fetcher:   fetcher,
	})
	if err != nil {
		log.Fatalf("Error opening image cache: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(len(results))

	dispatcher := events.NewDispatcher()
	dispatcher.Register(&events.ObserverFunc{
		Name:  "browse-resolver",
		Types: []string{events.TypeAssetResolved},
		Fn: func(e events.Event) error {
			defer wg.Done()
			resolved := e.Data.(events.AssetResolvedEvent)
			if resolved.Failed {
				fmt.Printf("  %-40s -> %s (unavailable)\n", resolved.CardName, resolved.LocalPath)
			} else {
				fmt.Printf("  %-40s -> %s\n", resolved.CardName, resolved.LocalPath)
			}
			return nil
		},
	})

	g, err := gallery.New(gallery.Config{
		BatchSize:  cfg.Gallery.BatchSize,
		Workers:    cfg.Gallery.ResolverWorkers,
		Resolver:   cache,
		Dispatcher: dispatcher,
	})
	if err != nil {
		log.Fatalf("Error starting resolver pipeline: %v", err)
	}

	fmt.Println("\nResolving images:")
	for batch := g.Reset(results); batch != nil; batch = g.RevealMore() {
	}
	wg.Wait()
	g.Close()

	stats := cache.GetStats()
	fmt.Printf("\nCache: %d files, %d bytes\n", stats.TotalFiles, stats.TotalSize)
}

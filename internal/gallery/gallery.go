// Package gallery paginates query results for progressive display and
// resolves card images in the background.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/events"
)

// nearEndThreshold is how close to the end of the revealed range the
// consumer's position must be before more items are revealed.
const nearEndThreshold = 50

// Resolver resolves an image identifier to a local path. Implemented by
// imagecache.Cache.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (path string, fromCache bool, err error)
}

// Gallery reveals a filtered card sequence in fixed-size batches. Each
// revealed card is queued for asset resolution on a bounded worker pool;
// completions are delivered through the event dispatcher, never by
// touching consumer state from a worker. Reveal operations themselves
// never block on I/O.
//
// Reset and reveal calls belong to the single control thread.
type Gallery struct {
	batchSize   int
	placeholder string
	resolver    Resolver
	dispatcher  *events.Dispatcher
	logger      *slog.Logger

	results  []*cards.Card
	revealed int

	jobs      chan *cards.Card
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Config configures the gallery.
type Config struct {
	BatchSize   int    // Cards revealed per batch (default 50)
	Workers     int    // Resolver workers (default 4)
	Placeholder string // Path substituted when resolution fails
	Resolver    Resolver
	Dispatcher  *events.Dispatcher
	Logger      *slog.Logger
}

// New creates a gallery and starts its resolver workers.
func New(config Config) (*Gallery, error) {
	if config.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.Placeholder == "" {
		config.Placeholder = "placeholder.png"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	g := &Gallery{
		batchSize:   config.BatchSize,
		placeholder: config.Placeholder,
		resolver:    config.Resolver,
		dispatcher:  config.Dispatcher,
		logger:      config.Logger,
		jobs:        make(chan *cards.Card, 256),
	}

	for i := 0; i < config.Workers; i++ {
		g.wg.Add(1)
		go g.resolveWorker()
	}

	return g, nil
}

// Reset replaces the result sequence and reveals the first batch.
// In-flight resolutions for the previous sequence are not cancelled;
// stale completions only touch cache entries that may no longer be
// visible, which is harmless.
func (g *Gallery) Reset(results []*cards.Card) []*cards.Card {
	g.results = results
	g.revealed = 0
	return g.RevealMore()
}

// RevealMore reveals the next batch and returns the newly revealed
// cards. Returns nil when everything is already revealed.
func (g *Gallery) RevealMore() []*cards.Card {
	if g.revealed >= len(g.results) {
		return nil
	}

	next := min(g.revealed+g.batchSize, len(g.results))
	batch := g.results[g.revealed:next]
	g.revealed = next

	for _, card := range batch {
		g.queueResolve(card)
	}
	return batch
}

// Revealed returns the currently revealed prefix of the results.
func (g *Gallery) Revealed() []*cards.Card {
	return g.results[:g.revealed]
}

// Remaining returns how many filtered cards are not yet revealed.
func (g *Gallery) Remaining() int {
	return len(g.results) - g.revealed
}

// NearEnd reports whether a consumer scroll position is close enough to
// its maximum that the next batch should be revealed.
func (g *Gallery) NearEnd(pos, max int) bool {
	return pos >= max-nearEndThreshold && g.Remaining() > 0
}

// Close stops the resolver workers and waits for them to drain.
func (g *Gallery) Close() {
	g.closeOnce.Do(func() {
		close(g.jobs)
	})
	g.wg.Wait()
}

// queueResolve hands a card to the worker pool. When the queue is full
// the job degrades to an immediate placeholder instead of blocking the
// reveal; every revealed card produces exactly one resolution event.
func (g *Gallery) queueResolve(card *cards.Card) {
	if card.Image == "" {
		g.dispatchResolved(card, g.placeholder, false, true)
		return
	}

	select {
	case g.jobs <- card:
	default:
		g.logger.Warn("resolver queue full, using placeholder", "card", card.Name)
		g.dispatchResolved(card, g.placeholder, false, true)
	}
}

// resolveWorker processes asset resolution jobs in the background.
func (g *Gallery) resolveWorker() {
	defer g.wg.Done()

	for card := range g.jobs {
		path, fromCache, err := g.resolver.Resolve(context.Background(), card.Image)
		if err != nil {
			g.logger.Warn("image resolution failed, using placeholder",
				"card", card.Name, "image", card.Image, "error", err)
			g.dispatchResolved(card, g.placeholder, false, true)
			continue
		}
		g.dispatchResolved(card, path, fromCache, false)
	}
}

func (g *Gallery) dispatchResolved(card *cards.Card, path string, fromCache, failed bool) {
	g.dispatcher.Dispatch(events.Event{
		Type: events.TypeAssetResolved,
		Data: events.AssetResolvedEvent{
			CardName:  card.Name,
			Image:     card.Image,
			LocalPath: path,
			FromCache: fromCache,
			Failed:    failed,
		},
	})
}

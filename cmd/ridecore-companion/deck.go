package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/RideCore-Companion/internal/config"
	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
	"github.com/ramonehamilton/RideCore-Companion/internal/events"
)

// runDeckCommand inspects and edits saved decks.
func runDeckCommand(cfg *config.Config, args []string) {
	if len(args) == 0 {
		printDeckUsage()
		os.Exit(1)
	}

	limits := deck.Limits{
		Main:      cfg.Deck.MainLimit,
		Trigger:   cfg.Deck.TriggerLimit,
		MaxCopies: cfg.Deck.MaxCopies,
	}
	store := deck.NewStore(cfg.Deck.Dir, limits)

	switch args[0] {
	case "list":
		names, err := store.List()
		if err != nil {
			log.Fatalf("Error listing decks: %v", err)
		}
		if len(names) == 0 {
			fmt.Println("No saved decks.")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}

	case "show":
		if len(args) != 2 {
			log.Fatal("Usage: deck show <name>")
		}
		d, err := store.Load(args[1])
		if err != nil {
			log.Fatalf("Error loading deck: %v", err)
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Fatalf("Error loading catalog: %v", err)
		}
		displayDeck(args[1], d, catalog)

	case "new":
		if len(args) != 2 {
			log.Fatal("Usage: deck new <name>")
		}
		if _, err := store.Load(args[1]); err == nil {
			log.Fatalf("Deck %q already exists", args[1])
		}
		if err := store.Save(deck.New(limits), args[1]); err != nil {
			log.Fatalf("Error creating deck: %v", err)
		}
		fmt.Printf("Created empty deck %q\n", deck.SanitizeName(args[1]))

	case "add", "remove":
		if len(args) != 4 {
			log.Fatalf("Usage: deck %s <name> <main|triggers> <card name>", args[0])
		}
		editDeck(cfg, store, limits, args[0], args[1], deck.Section(args[2]), args[3])

	case "delete":
		if len(args) != 2 {
			log.Fatal("Usage: deck delete <name>")
		}
		if err := os.Remove(store.Path(args[1])); err != nil {
			log.Fatalf("Error deleting deck: %v", err)
		}
		fmt.Printf("Deleted deck %q\n", args[1])

	case "watch":
		watchDecks(store)

	default:
		printDeckUsage()
		os.Exit(1)
	}
}

// editDeck applies a single add or remove and saves the result.
func editDeck(cfg *config.Config, store *deck.Store, limits deck.Limits, action, name string, section deck.Section, cardName string) {
	d, err := store.Load(name)
	if errors.Is(err, deck.ErrDeckNotFound) && action == "add" {
		d = deck.New(limits)
		err = nil
	}
	if err != nil {
		log.Fatalf("Error loading deck: %v", err)
	}

	switch action {
	case "add":
		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Fatalf("Error loading catalog: %v", err)
		}
		if v := d.Add(section, cardName, catalog); v != nil {
			log.Fatalf("Cannot add card: %v", v)
		}
	case "remove":
		if !d.Remove(section, cardName) {
			log.Fatalf("Card %q is not in the %s section", cardName, section)
		}
	}

	if err := store.Save(d, name); err != nil {
		log.Fatalf("Error saving deck: %v", err)
	}

	dispatcher := events.NewDispatcher()
	dispatcher.Register(&events.ObserverFunc{
		Name:  "deck-edit",
		Types: []string{events.TypeDeckUpdated},
		Fn: func(e events.Event) error {
			updated := e.Data.(events.DeckUpdatedEvent)
			fmt.Printf("Deck %q now has %d main / %d trigger cards\n",
				name, updated.MainCount, updated.TriggerCount)
			return nil
		},
	})
	dispatcher.Dispatch(events.Event{
		Type: events.TypeDeckUpdated,
		Data: events.DeckUpdatedEvent{MainCount: d.TotalMain(), TriggerCount: d.TotalTriggers()},
	})
}

// watchDecks blocks and reports deck directory changes until
// interrupted, the same change feed a front end uses to refresh its
// deck dropdown.
func watchDecks(store *deck.Store) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := events.NewDispatcher()
	dispatcher.Register(&events.ObserverFunc{
		Name:  "deck-watch",
		Types: []string{events.TypeDecksChanged},
		Fn: func(e events.Event) error {
			changed := e.Data.(events.DecksChangedEvent)
			fmt.Printf("Decks changed (%d): %v\n", len(changed.Names), changed.Names)
			return nil
		},
	})

	fmt.Println("Watching deck directory (Ctrl-C to stop)...")
	err := store.Watch(ctx, func() {
		names, err := store.List()
		if err != nil {
			log.Printf("Error listing decks: %v", err)
			return
		}
		dispatcher.Dispatch(events.Event{
			Type: events.TypeDecksChanged,
			Data: events.DecksChangedEvent{Names: names},
		})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Watcher stopped: %v", err)
	}
}

func printDeckUsage() {
	fmt.Println("Usage:")
	fmt.Println("  ridecore-companion deck list")
	fmt.Println("  ridecore-companion deck show <name>")
	fmt.Println("  ridecore-companion deck new <name>")
	fmt.Println("  ridecore-companion deck add <name> <main|triggers> <card name>")
	fmt.Println("  ridecore-companion deck remove <name> <main|triggers> <card name>")
	fmt.Println("  ridecore-companion deck delete <name>")
	fmt.Println("  ridecore-companion deck watch")
}

package main

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
)

// displayDeck prints a deck's sections, totals and grade breakdown.
func displayDeck(name string, d *deck.Deck, catalog *cards.Catalog) {
	fmt.Printf("Deck: %s\n", name)
	fmt.Println("==========")
	fmt.Println()

	limits := d.Limits()
	fmt.Printf("Main (%d/%d):\n", d.TotalMain(), limits.Main)
	displaySection(d.Main(), catalog)
	fmt.Println()

	fmt.Printf("Triggers (%d/%d):\n", d.TotalTriggers(), limits.Trigger)
	displaySection(d.Triggers(), catalog)
	fmt.Println()

	gradeCounts := d.GradeCounts(catalog)
	if len(gradeCounts) > 0 {
		fmt.Println("By Grade:")
		grades := make([]int, 0, len(gradeCounts))
		for g := range gradeCounts {
			grades = append(grades, int(g))
		}
		sort.Ints(grades)
		for _, g := range grades {
			fmt.Printf("  Grade %d: %d\n", g, gradeCounts[cards.Grade(g)])
		}
		fmt.Println()
	}

	fmt.Printf("Total: %d cards\n", d.Total())
}

// displaySection prints one section's counts, names alphabetical.
func displaySection(counts map[string]int, catalog *cards.Catalog) {
	if len(counts) == 0 {
		fmt.Println("  (empty)")
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := ""
		if card, ok := catalog.Get(name); ok {
			info = fmt.Sprintf(" (G%d %s)", card.Grade, card.Clan)
		} else {
			info = " (not in catalog)"
		}
		fmt.Printf("  %dx %s%s\n", counts[name], name, info)
	}
}

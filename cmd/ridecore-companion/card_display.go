package main

import (
	"fmt"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// displayCards prints a card listing, truncated to limit when positive.
func displayCards(results []*cards.Card, limit int, showEffects bool) {
	if len(results) == 0 {
		fmt.Println("No cards matched.")
		return
	}

	shown := len(results)
	if limit > 0 && limit < shown {
		shown = limit
	}

	for _, card := range results[:shown] {
		displayCard(card, showEffects)
	}

	if shown < len(results) {
		fmt.Printf("... and %d more cards (raise -limit to see them)\n", len(results)-shown)
	}
}

// displayCard prints a single card line, optionally with effect text.
func displayCard(card *cards.Card, showEffects bool) {
	trigger := ""
	if t := card.Trigger(); t != cards.TriggerNone {
		trigger = fmt.Sprintf(" [%s]", t)
	}

	stats := ""
	if card.Power != "" || card.Shield != "" {
		stats = fmt.Sprintf("  P:%s S:%s", orDash(string(card.Power)), orDash(string(card.Shield)))
	}

	fmt.Printf("  G%d %-40s %-20s %s%s%s\n", card.Grade, card.Name, card.Clan, card.Set, stats, trigger)

	if showEffects {
		for _, line := range card.Effect {
			fmt.Printf("      %s\n", line)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package export

import (
	"sort"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
)

// DeckRow is one exported deck list line.
type DeckRow struct {
	Section string `json:"section" csv:"Section"`
	Name    string `json:"name" csv:"Name"`
	Count   int    `json:"count" csv:"Count"`
	Grade   int    `json:"grade" csv:"Grade"`
	Clan    string `json:"clan" csv:"Clan"`
	Type    string `json:"type" csv:"Type"`
	Power   string `json:"power" csv:"Power"`
	Shield  string `json:"shield" csv:"Shield"`
}

// DeckList is the full export payload for one deck.
type DeckList struct {
	Name         string    `json:"name"`
	MainCount    int       `json:"main_count"`
	TriggerCount int       `json:"trigger_count"`
	Rows         []DeckRow `json:"rows"`
}

// BuildDeckList flattens a deck into sorted rows, main section first,
// names alphabetical within each section. Cards absent from the catalog
// still export with their counts so a stale catalog never hides cards.
func BuildDeckList(name string, d *deck.Deck, catalog *cards.Catalog) DeckList {
	list := DeckList{
		Name:         name,
		MainCount:    d.TotalMain(),
		TriggerCount: d.TotalTriggers(),
	}

	list.Rows = append(list.Rows, sectionRows(deck.SectionMain, d.Main(), catalog)...)
	list.Rows = append(list.Rows, sectionRows(deck.SectionTriggers, d.Triggers(), catalog)...)
	return list
}

func sectionRows(section deck.Section, counts map[string]int, catalog *cards.Catalog) []DeckRow {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]DeckRow, 0, len(names))
	for _, name := range names {
		row := DeckRow{
			Section: string(section),
			Name:    name,
			Count:   counts[name],
		}
		if card, ok := catalog.Get(name); ok {
			row.Grade = int(card.Grade)
			row.Clan = card.Clan
			row.Type = card.Type
			row.Power = string(card.Power)
			row.Shield = string(card.Shield)
		}
		rows = append(rows, row)
	}
	return rows
}

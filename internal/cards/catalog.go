package cards

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// LoadError indicates the catalog source was missing, unreadable or
// structurally invalid. Callers treat it as fatal: without a catalog the
// application has no usable state.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is an immutable, name-keyed card collection that preserves the
// source's record order. It is read-only after load.
type Catalog struct {
	byName  map[string]*Card
	ordered []*Card
}

// Load reads a catalog from a JSON file containing an array of card
// records. Duplicate names are overwritten by later records (the earlier
// record's position is kept) and logged.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var records []*Card
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parse card records: %w", err)}
	}

	return build(records), nil
}

// NewCatalog builds a catalog from in-memory records, applying the same
// ordering and duplicate rules as Load. Used by the database loader, the
// scraper and tests.
func NewCatalog(records []*Card) *Catalog {
	return build(records)
}

func build(records []*Card) *Catalog {
	cat := &Catalog{
		byName:  make(map[string]*Card, len(records)),
		ordered: make([]*Card, 0, len(records)),
	}

	for _, card := range records {
		if card == nil || card.Name == "" {
			continue
		}
		card.classify()

		if prev, ok := cat.byName[card.Name]; ok {
			slog.Warn("duplicate card name in catalog, later record wins",
				"name", card.Name, "number", card.Number, "previous_number", prev.Number)
			// Replace in place so the first occurrence's position holds.
			for i, existing := range cat.ordered {
				if existing.Name == card.Name {
					cat.ordered[i] = card
					break
				}
			}
			cat.byName[card.Name] = card
			continue
		}

		cat.byName[card.Name] = card
		cat.ordered = append(cat.ordered, card)
	}

	return cat
}

// Get returns the card with the given name.
func (c *Catalog) Get(name string) (*Card, bool) {
	card, ok := c.byName[name]
	return card, ok
}

// Cards returns all cards in source order. The returned slice is shared;
// callers must not modify it.
func (c *Catalog) Cards() []*Card {
	return c.ordered
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Clans returns the distinct non-empty clan tags, sorted.
func (c *Catalog) Clans() []string {
	return c.distinct(func(card *Card) string { return card.Clan })
}

// Sets returns the distinct non-empty set tags, sorted.
func (c *Catalog) Sets() []string {
	return c.distinct(func(card *Card) string { return card.Set })
}

func (c *Catalog) distinct(key func(*Card) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, card := range c.ordered {
		v := key(card)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

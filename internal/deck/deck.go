// Package deck implements the deck aggregate and its composition rules.
package deck

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// Section identifies one of the two deck compartments.
type Section string

const (
	SectionMain     Section = "main"
	SectionTriggers Section = "triggers"
)

// Limits holds the deck composition caps. Main differs between the two
// shipped variants (34 and 38), so it is always carried as a value and
// never hard-coded at call sites.
type Limits struct {
	Main      int // Maximum total cards in the main section
	Trigger   int // Maximum total cards in the triggers section
	MaxCopies int // Maximum copies of any single card
}

// OverTriggerLimit caps the OverTrigger subtype regardless of MaxCopies.
const OverTriggerLimit = 1

// DefaultLimits returns the standard composition limits.
func DefaultLimits() Limits {
	return Limits{Main: 34, Trigger: 16, MaxCopies: 4}
}

// Reason identifies which rule rejected an Add.
type Reason string

const (
	ReasonUnknownSection  Reason = "unknown_section"
	ReasonUnknownCard     Reason = "unknown_card"
	ReasonSectionMismatch Reason = "section_mismatch"
	ReasonSectionFull     Reason = "section_full"
	ReasonCopyLimit       Reason = "copy_limit"
	ReasonOverTrigger     Reason = "over_trigger_limit"
)

// RuleViolation reports why an Add was rejected. The deck is unchanged
// whenever one is returned.
type RuleViolation struct {
	Reason  Reason
	Message string
}

func (v *RuleViolation) Error() string {
	return v.Message
}

func violation(reason Reason, format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Deck is a mutable aggregate of card name → copy count across the main
// and triggers sections. Zero-count entries are deleted, never stored.
// Not safe for concurrent use; a single control thread owns it.
type Deck struct {
	limits   Limits
	main     map[string]int
	triggers map[string]int
}

// New creates an empty deck with the given limits.
func New(limits Limits) *Deck {
	return &Deck{
		limits:   limits,
		main:     make(map[string]int),
		triggers: make(map[string]int),
	}
}

// Limits returns the deck's composition limits.
func (d *Deck) Limits() Limits {
	return d.limits
}

// Add places one copy of the named card into the requested section.
// Rules are checked in order: known section, known card, classification
// matches the section, section total below its limit, per-card copies
// below the limit (one for OverTriggers). The first failing rule is
// reported and the deck is left untouched.
func (d *Deck) Add(section Section, name string, catalog *cards.Catalog) *RuleViolation {
	card, ok := catalog.Get(name)
	if section != SectionMain && section != SectionTriggers {
		return violation(ReasonUnknownSection, "Unknown section %q.", section)
	}
	if !ok {
		return violation(ReasonUnknownCard, "Card %q is not in the catalog.", name)
	}

	switch section {
	case SectionMain:
		if card.IsTrigger() {
			return violation(ReasonSectionMismatch, "Only non-trigger units can be added to Main.")
		}
		if d.TotalMain() >= d.limits.Main {
			return violation(ReasonSectionFull, "Main deck is capped at %d.", d.limits.Main)
		}
		if d.main[name] >= d.limits.MaxCopies {
			return violation(ReasonCopyLimit, "Max %d copies of %s.", d.limits.MaxCopies, name)
		}
		d.main[name]++

	case SectionTriggers:
		if !card.IsTrigger() {
			return violation(ReasonSectionMismatch, "Only trigger units can be added to Triggers.")
		}
		if d.TotalTriggers() >= d.limits.Trigger {
			return violation(ReasonSectionFull, "Trigger deck is capped at %d.", d.limits.Trigger)
		}
		if card.Trigger() == cards.TriggerOver && d.triggers[name] >= OverTriggerLimit {
			return violation(ReasonOverTrigger, "Only %d OverTrigger allowed.", OverTriggerLimit)
		}
		if d.triggers[name] >= d.limits.MaxCopies {
			return violation(ReasonCopyLimit, "Max %d copies of %s.", d.limits.MaxCopies, name)
		}
		d.triggers[name]++
	}

	return nil
}

// Remove decrements the named card's count in the section, deleting the
// entry when it reaches zero. Returns whether a removal occurred.
func (d *Deck) Remove(section Section, name string) bool {
	group := d.section(section)
	if group == nil || group[name] <= 0 {
		return false
	}
	group[name]--
	if group[name] == 0 {
		delete(group, name)
	}
	return true
}

// Clear empties both sections unconditionally.
func (d *Deck) Clear() {
	d.main = make(map[string]int)
	d.triggers = make(map[string]int)
}

// TotalMain returns the sum of main-section counts.
func (d *Deck) TotalMain() int {
	return total(d.main)
}

// TotalTriggers returns the sum of trigger-section counts.
func (d *Deck) TotalTriggers() int {
	return total(d.triggers)
}

// Total returns the total number of cards in the deck.
func (d *Deck) Total() int {
	return d.TotalMain() + d.TotalTriggers()
}

// Count returns the copy count of a card in the given section.
func (d *Deck) Count(section Section, name string) int {
	group := d.section(section)
	if group == nil {
		return 0
	}
	return group[name]
}

// Main returns a copy of the main-section counts.
func (d *Deck) Main() map[string]int {
	return copyCounts(d.main)
}

// Triggers returns a copy of the trigger-section counts.
func (d *Deck) Triggers() map[string]int {
	return copyCounts(d.triggers)
}

// GradeCounts returns the per-grade card counts of the main section.
// Each grade reflects its own count.
func (d *Deck) GradeCounts(catalog *cards.Catalog) map[cards.Grade]int {
	counts := make(map[cards.Grade]int)
	for name, n := range d.main {
		card, ok := catalog.Get(name)
		if !ok {
			continue
		}
		counts[card.Grade] += n
	}
	return counts
}

// ImagePaths returns the deck's card image identifiers in section order
// (main first), names sorted within each section, each repeated by its
// copy count. Cards without an image or missing from the catalog are
// skipped. The order is stable so repeated proxy exports produce
// identical sheets.
func (d *Deck) ImagePaths(catalog *cards.Catalog) []string {
	var paths []string
	for _, group := range []map[string]int{d.main, d.triggers} {
		names := make([]string, 0, len(group))
		for name := range group {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			card, ok := catalog.Get(name)
			if !ok || card.Image == "" {
				continue
			}
			for i := 0; i < group[name]; i++ {
				paths = append(paths, card.Image)
			}
		}
	}
	return paths
}

// setCounts replaces both sections wholesale, dropping non-positive
// entries. Used by the store when loading a deck file.
func (d *Deck) setCounts(main, triggers map[string]int) {
	d.main = make(map[string]int, len(main))
	for name, n := range main {
		if n > 0 {
			d.main[name] = n
		}
	}
	d.triggers = make(map[string]int, len(triggers))
	for name, n := range triggers {
		if n > 0 {
			d.triggers[name] = n
		}
	}
}

func (d *Deck) section(section Section) map[string]int {
	switch section {
	case SectionMain:
		return d.main
	case SectionTriggers:
		return d.triggers
	}
	return nil
}

func total(counts map[string]int) int {
	sum := 0
	for _, n := range counts {
		sum += n
	}
	return sum
}

func copyCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for name, n := range counts {
		out[name] = n
	}
	return out
}

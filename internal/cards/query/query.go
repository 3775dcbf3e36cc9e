// Package query evaluates filter criteria against the card catalog.
package query

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// AnyGrade is the sentinel for an unset grade criterion.
const AnyGrade = -1

// TriggerFilter selects cards by trigger classification.
type TriggerFilter string

const (
	// TriggerAny matches every card.
	TriggerAny TriggerFilter = ""
	// TriggerNonTrigger matches only non-trigger cards.
	TriggerNonTrigger TriggerFilter = "Non-Trigger"

	TriggerCritical TriggerFilter = "Critical"
	TriggerDraw     TriggerFilter = "Draw"
	TriggerStand    TriggerFilter = "Stand"
	TriggerHeal     TriggerFilter = "Heal"
	TriggerOver     TriggerFilter = "Over"
)

// Criteria specifies filter criteria for catalog queries. The zero value
// matches every card: each field has an "any" state that always passes.
type Criteria struct {
	SearchTerm string        // Case-insensitive substring match on name
	Grade      int           // Exact grade, AnyGrade = unset
	Trigger    TriggerFilter // Trigger selector
	Clan       string        // Exact clan, "" = any
	Set        string        // Exact set, "" = any
}

// NewCriteria returns criteria with every field in its "any" state.
func NewCriteria() Criteria {
	return Criteria{Grade: AnyGrade}
}

// Matches reports whether a single card passes all active criteria.
func (c Criteria) Matches(card *cards.Card) bool {
	if c.SearchTerm != "" &&
		!strings.Contains(strings.ToLower(card.Name), strings.ToLower(c.SearchTerm)) {
		return false
	}
	if c.Grade != AnyGrade && int(card.Grade) != c.Grade {
		return false
	}
	switch c.Trigger {
	case TriggerAny:
	case TriggerNonTrigger:
		if card.IsTrigger() {
			return false
		}
	default:
		if string(card.Trigger()) != string(c.Trigger) {
			return false
		}
	}
	if c.Clan != "" && card.Clan != c.Clan {
		return false
	}
	if c.Set != "" && card.Set != c.Set {
		return false
	}
	return true
}

// Run evaluates the criteria against every catalog entry and returns the
// matches in catalog order. It is a pure function of its inputs.
func Run(catalog *cards.Catalog, criteria Criteria) []*cards.Card {
	results := make([]*cards.Card, 0, catalog.Len())
	for _, card := range catalog.Cards() {
		if criteria.Matches(card) {
			results = append(results, card)
		}
	}
	return results
}

// SortBySet orders cards by set tag in natural order (embedded digit runs
// compare numerically, so "BS2" sorts before "BS10"), breaking ties by
// card number. The sort is stable and in place.
func SortBySet(results []*cards.Card) {
	sort.SliceStable(results, func(i, j int) bool {
		if cmp := NaturalCompare(results[i].Set, results[j].Set); cmp != 0 {
			return cmp < 0
		}
		return results[i].Number < results[j].Number
	})
}

// Package cards defines the card model and the read-only card catalog.
package cards

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TriggerType classifies a card's trigger, if any.
type TriggerType string

const (
	TriggerNone     TriggerType = ""
	TriggerCritical TriggerType = "Critical"
	TriggerDraw     TriggerType = "Draw"
	TriggerStand    TriggerType = "Stand"
	TriggerHeal     TriggerType = "Heal"

	// TriggerOver is the OverTrigger variant, capped at one copy per deck.
	TriggerOver TriggerType = "Over"
)

// ClassifyTrigger derives the trigger classification from a card's type
// field. The four base trigger types and the literal "Over" classify as
// triggers; everything else (including "Over"-prefixed custom subtypes)
// is non-trigger.
func ClassifyTrigger(cardType string) TriggerType {
	switch strings.TrimSpace(cardType) {
	case "Critical":
		return TriggerCritical
	case "Draw":
		return TriggerDraw
	case "Stand":
		return TriggerStand
	case "Heal":
		return TriggerHeal
	case "Over":
		return TriggerOver
	}
	return TriggerNone
}

// Card represents a single catalog entry. Name is the primary key.
type Card struct {
	Number int        `json:"number"`
	Name   string     `json:"name"`
	Grade  Grade      `json:"grade"`
	Type   string     `json:"type"`
	Clan   string     `json:"clan,omitempty"`
	Set    string     `json:"set,omitempty"`
	Power  StatValue  `json:"power,omitempty"`
	Shield StatValue  `json:"shield,omitempty"`
	Effect EffectText `json:"effect,omitempty"`
	Image  string     `json:"image,omitempty"`

	// trigger caches the classification computed at load time so queries
	// and deck validation never re-derive it.
	trigger TriggerType
}

// Trigger returns the cached trigger classification.
func (c *Card) Trigger() TriggerType {
	return c.trigger
}

// IsTrigger reports whether the card belongs in the triggers section.
func (c *Card) IsTrigger() bool {
	return c.trigger != TriggerNone
}

// classify computes and caches the trigger classification.
func (c *Card) classify() {
	c.trigger = ClassifyTrigger(c.Type)
}

// Grade is a small non-negative integer that tolerates both numeric and
// string encodings in the source data (scraped pages yield strings).
type Grade int

// UnmarshalJSON accepts 3, "3" and "".
func (g *Grade) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*g = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid grade %q: %w", s, err)
	}
	if n < 0 {
		return fmt.Errorf("invalid grade %d: must not be negative", n)
	}
	*g = Grade(n)
	return nil
}

// StatValue is a display stat (power, shield) that may arrive as a JSON
// number, a string, or be absent entirely.
type StatValue string

// UnmarshalJSON accepts 8000, "8000" and null.
func (s *StatValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "null" {
		*s = ""
		return nil
	}
	*s = StatValue(trimmed)
	return nil
}

// EffectText holds a card's rules text as an ordered list of lines. The
// source encodes it either as a single string or as an array of strings.
type EffectText []string

// UnmarshalJSON accepts "text", ["line", ...] and null.
func (e *EffectText) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*e = nil
		} else {
			*e = EffectText{single}
		}
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*e = EffectText(lines)
		return nil
	}

	if string(data) == "null" {
		*e = nil
		return nil
	}

	return fmt.Errorf("invalid effect value: %s", string(data))
}

// Display normalizes the effect lines to one display string.
func (e EffectText) Display() string {
	return strings.Join(e, "\n")
}

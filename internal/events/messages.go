package events

// Event type identifiers.
const (
	TypeAssetResolved = "asset:resolved"
	TypeDecksChanged  = "decks:changed"
	TypeDeckUpdated   = "deck:updated"
)

// AssetResolvedEvent is the payload for asset:resolved events. Sent when
// a background worker finishes resolving one card image, successfully or
// not. The consumer updates only the presentation state for that card.
type AssetResolvedEvent struct {
	CardName  string `json:"cardName"`  // Card the asset belongs to
	Image     string `json:"image"`     // Image identifier from the catalog
	LocalPath string `json:"localPath"` // Resolved local path (placeholder on failure)
	FromCache bool   `json:"fromCache"` // True when no fetch was needed
	Failed    bool   `json:"failed"`    // True when the placeholder was substituted
}

// DecksChangedEvent is the payload for decks:changed events. Sent when
// the deck directory contents change on disk.
type DecksChangedEvent struct {
	Names []string `json:"names"` // Current deck names
}

// DeckUpdatedEvent is the payload for deck:updated events. Sent after a
// successful add or remove so displays can refresh their counters.
type DeckUpdatedEvent struct {
	MainCount    int `json:"mainCount"`
	TriggerCount int `json:"triggerCount"`
}

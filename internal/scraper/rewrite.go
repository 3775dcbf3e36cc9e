package scraper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// ImagePathFor is the canonical catalog image path for a card,
// forward-slashed regardless of platform.
func ImagePathFor(card *cards.Card) string {
	return fmt.Sprintf("cardimg/%s/%d.png", card.Set, card.Number)
}

// RewriteImagePaths points every record's image field at the canonical
// per-set layout. When localBase is non-empty, records whose canonical
// file does not exist under it are reported by name so a harvest run
// can be scheduled. Returns how many records were changed.
func RewriteImagePaths(records []cards.Card, localBase string) (changed int, missing []string) {
	for i := range records {
		want := ImagePathFor(&records[i])
		if records[i].Image != want {
			records[i].Image = want
			changed++
		}
		if localBase != "" {
			local := filepath.Join(localBase, filepath.FromSlash(want))
			if _, err := os.Stat(local); err != nil {
				missing = append(missing, records[i].Name)
			}
		}
	}
	return changed, missing
}

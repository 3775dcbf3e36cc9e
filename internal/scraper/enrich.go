package scraper

import (
	"context"
	"log"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// EnrichEffects fills in effect text for catalog records that have
// none, fetching each card's wiki page by name. Records that already
// carry effect lines are left untouched; fetch failures are logged and
// skipped so one missing page never aborts a long run. Returns how many
// records were enriched.
func (s *Scraper) EnrichEffects(ctx context.Context, records []cards.Card) (int, error) {
	enriched := 0
	for i := range records {
		if len(records[i].Effect) > 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return enriched, err
		}

		detail, err := s.FetchCard(ctx, CardPagePath(records[i].Name))
		if err != nil {
			log.Printf("[Scraper] Skipping effect for %q: %v", records[i].Name, err)
			continue
		}
		if len(detail.Effect) == 0 {
			continue
		}

		records[i].Effect = cards.EffectText(detail.Effect)
		enriched++
	}

	log.Printf("[Scraper] Enriched %d records with effect text", enriched)
	return enriched, nil
}

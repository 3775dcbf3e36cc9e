package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Harvester downloads card scans from the gallery site, which renders
// its image grid with JavaScript and so needs a real browser.
type Harvester struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	outDir   string
}

// scrollSettleDelay is how long the gallery gets to append images after
// each scroll before the page height is re-checked.
const scrollSettleDelay = 500 * time.Millisecond

// NewHarvester creates a harvester writing images under outDir.
func NewHarvester(outDir string) *Harvester {
	return &Harvester{outDir: outDir}
}

// Connect launches a headless browser.
func (h *Harvester) Connect() error {
	h.launcher = launcher.New().Headless(true)
	controlURL, err := h.launcher.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		h.launcher.Kill()
		return fmt.Errorf("connect to browser: %w", err)
	}
	h.browser = browser
	return nil
}

// Close shuts the browser down.
func (h *Harvester) Close() {
	if h.browser != nil {
		_ = h.browser.Close()
	}
	if h.launcher != nil {
		h.launcher.Kill()
	}
}

// HarvestSet loads a gallery page, scrolls until no more images load,
// and saves every card figure as cardimg/<setCode>/<n>.png. Returns
// the number of images written.
func (h *Harvester) HarvestSet(ctx context.Context, pageURL, setCode string) (int, error) {
	if h.browser == nil {
		return 0, fmt.Errorf("harvester is not connected")
	}

	setDir := filepath.Join(h.outDir, "cardimg", setCode)
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		return 0, fmt.Errorf("create set directory: %w", err)
	}

	page, err := h.browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return 0, fmt.Errorf("open page %s: %w", pageURL, err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return 0, fmt.Errorf("wait for page load: %w", err)
	}
	if err := h.scrollToBottom(page); err != nil {
		return 0, err
	}

	elements, err := page.Elements("figure img")
	if err != nil {
		return 0, fmt.Errorf("find card figures: %w", err)
	}
	log.Printf("[Harvester] Found %d card figures on %s", len(elements), pageURL)

	saved := 0
	for i, el := range elements {
		data, err := el.Resource()
		if err != nil {
			log.Printf("[Harvester] Failed to read image %d: %v", i+1, err)
			continue
		}
		outPath := filepath.Join(setDir, fmt.Sprintf("%d.png", i+1))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return saved, fmt.Errorf("write %s: %w", outPath, err)
		}
		saved++
	}

	log.Printf("[Harvester] Saved %d/%d images for set %s", saved, len(elements), setCode)
	return saved, nil
}

// scrollToBottom keeps scrolling until the page height stops growing,
// which is how the gallery signals it has nothing more to lazy-load.
func (h *Harvester) scrollToBottom(page *rod.Page) error {
	lastHeight := -1
	for {
		res, err := page.Eval(`() => {
			window.scrollTo(0, document.body.scrollHeight);
			return document.body.scrollHeight;
		}`)
		if err != nil {
			return fmt.Errorf("scroll page: %w", err)
		}
		height := res.Value.Int()
		if height == lastHeight {
			return nil
		}
		lastHeight = height
		time.Sleep(scrollSettleDelay)
	}
}

// Package proxy composes card images into printable proxy sheets.
package proxy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoding for source images
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ramonehamilton/RideCore-Companion/internal/deck"
)

// Cell and layout geometry. A sheet holds a 3x3 grid of cards at
// physical card proportions when printed at 300 DPI.
const (
	cardWidth  = 677
	cardHeight = 991
	columns    = 3
	rows       = 3
	margin     = 50
	padding    = 30

	cardsPerSheet = columns * rows
	sheetDPI      = 300
)

// SheetWidth and SheetHeight are the pixel dimensions of one sheet.
const (
	SheetWidth  = 2*margin + columns*cardWidth + (columns-1)*padding
	SheetHeight = 2*margin + rows*cardHeight + (rows-1)*padding
)

// Generator renders proxy sheets into an output directory.
type Generator struct {
	outputDir string
	logger    *slog.Logger
}

// NewGenerator creates a generator writing sheets under outputDir.
func NewGenerator(outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{outputDir: outputDir, logger: logger}
}

// Generate renders ceil(len(imagePaths)/9) sheets for the named deck
// and returns the written file paths. Images that cannot be read leave
// their cell blank rather than aborting the whole print run.
func (g *Generator) Generate(deckName string, imagePaths []string) ([]string, error) {
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("no images to lay out")
	}
	safeName := deck.SanitizeName(deckName)
	if safeName == "" {
		return nil, fmt.Errorf("deck name %q sanitizes to nothing", deckName)
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for start := 0; start < len(imagePaths); start += cardsPerSheet {
		end := min(start+cardsPerSheet, len(imagePaths))
		sheetIndex := start/cardsPerSheet + 1

		sheet := g.renderSheet(imagePaths[start:end])

		outPath := filepath.Join(g.outputDir, fmt.Sprintf("%s_sheet_%d.png", safeName, sheetIndex))
		if err := writePNG(outPath, sheet); err != nil {
			return written, fmt.Errorf("write sheet %d: %w", sheetIndex, err)
		}
		g.logger.Info("wrote proxy sheet", "path", outPath, "cards", end-start)
		written = append(written, outPath)
	}

	return written, nil
}

// renderSheet composites up to nine card images onto a white sheet.
func (g *Generator) renderSheet(imagePaths []string) *image.RGBA {
	sheet := image.NewRGBA(image.Rect(0, 0, SheetWidth, SheetHeight))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, path := range imagePaths {
		src, err := loadImage(path)
		if err != nil {
			g.logger.Warn("skipping unreadable card image", "path", path, "error", err)
			continue
		}

		col := i % columns
		row := i / columns
		x := margin + col*(cardWidth+padding)
		y := margin + row*(cardHeight+padding)
		cell := image.Rect(x, y, x+cardWidth, y+cardHeight)

		draw.CatmullRom.Scale(sheet, cell, src, src.Bounds(), draw.Over, nil)
	}

	return sheet
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// writePNG encodes the sheet and stamps its print resolution so photo
// printers lay the cards out at physical card size.
func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	data, err := withDPI(buf.Bytes(), sheetDPI)
	if err != nil {
		return fmt.Errorf("set print resolution: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// withDPI inserts a pHYs chunk after IHDR. The standard encoder never
// writes one, and without it printers fall back to 72 DPI.
func withDPI(data []byte, dpi int) ([]byte, error) {
	// 8-byte signature, then IHDR: 4 length + 4 type + 13 data + 4 CRC.
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return nil, fmt.Errorf("malformed png stream")
	}

	pixelsPerMetre := uint32(float64(dpi)/0.0254 + 0.5)

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], pixelsPerMetre)
	binary.BigEndian.PutUint32(chunk[12:16], pixelsPerMetre)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

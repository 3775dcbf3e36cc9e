package proxy

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestCard(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func TestGenerateSplitsIntoSheets(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	var paths []string
	for i := 0; i < 10; i++ {
		paths = append(paths, writeTestCard(t, srcDir, "card.png", color.RGBA{R: 200, A: 255}))
	}

	gen := NewGenerator(outDir, nil)
	sheets, err := gen.Generate("My Deck", paths)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("sheets = %d, want 2 for 10 cards", len(sheets))
	}

	wantFirst := filepath.Join(outDir, "My Deck_sheet_1.png")
	if sheets[0] != wantFirst {
		t.Errorf("first sheet = %q, want %q", sheets[0], wantFirst)
	}

	f, err := os.Open(sheets[0])
	if err != nil {
		t.Fatalf("Failed to open sheet: %v", err)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode sheet: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != SheetWidth || bounds.Dy() != SheetHeight {
		t.Errorf("sheet size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), SheetWidth, SheetHeight)
	}
}

func TestGenerateStampsPrintResolution(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	path := writeTestCard(t, srcDir, "card.png", color.White)

	gen := NewGenerator(outDir, nil)
	sheets, err := gen.Generate("deck", []string{path})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(sheets[0])
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	if !bytes.Contains(data, []byte("pHYs")) {
		t.Error("sheet png is missing the pHYs resolution chunk")
	}
	// The chunk must still decode cleanly.
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("sheet with pHYs chunk no longer decodes: %v", err)
	}
}

func TestGenerateToleratesMissingImages(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	paths := []string{
		writeTestCard(t, srcDir, "ok.png", color.White),
		filepath.Join(srcDir, "missing.png"),
	}

	gen := NewGenerator(outDir, nil)
	sheets, err := gen.Generate("deck", paths)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(sheets) != 1 {
		t.Errorf("sheets = %d, want 1", len(sheets))
	}
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	gen := NewGenerator(t.TempDir(), nil)
	if _, err := gen.Generate("deck", nil); err == nil {
		t.Error("Generate() with no images should fail")
	}
}

func TestGenerateSanitizesDeckName(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	path := writeTestCard(t, srcDir, "card.png", color.White)

	gen := NewGenerator(outDir, nil)
	sheets, err := gen.Generate("bad/name?!", []string{path})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	base := filepath.Base(sheets[0])
	if base != "badname_sheet_1.png" {
		t.Errorf("sheet name = %q", base)
	}
}

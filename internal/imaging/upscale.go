// Package imaging normalizes downloaded card art. Some sources serve
// low-resolution scans that print badly; anything narrower than the
// minimum width is rescaled up before it reaches the proxy pipeline.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoding for source images
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// MinWidth is the narrowest acceptable card image.
const MinWidth = 700

// Upscaler rescales undersized images in place.
type Upscaler struct {
	minWidth int
	logger   *slog.Logger
}

// NewUpscaler creates an upscaler with the default minimum width.
func NewUpscaler(logger *slog.Logger) *Upscaler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upscaler{minWidth: MinWidth, logger: logger}
}

// UpscaleFile rescales the image at path to the minimum width if it is
// narrower, preserving aspect ratio. Returns true when the file was
// rewritten. Output is always PNG regardless of the source format.
func (u *Upscaler) UpscaleFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open image: %w", err)
	}
	src, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() >= u.minWidth {
		return false, nil
	}

	scale := float64(u.minWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy())*scale + 0.5)

	dst := image.NewRGBA(image.Rect(0, 0, u.minWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	tmp, err := os.CreateTemp(filepath.Dir(path), "upscale-*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := png.Encode(tmp, dst); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("encode upscaled image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("replace image: %w", err)
	}

	u.logger.Info("upscaled image", "path", path,
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", u.minWidth, height))
	return true, nil
}

// UpscaleDir walks root and rescales every undersized png or jpeg.
// Unreadable files are logged and skipped. Returns how many files were
// rewritten.
func (u *Upscaler) UpscaleDir(root string) (int, error) {
	upscaled := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImageFile(path) {
			return nil
		}
		changed, err := u.UpscaleFile(path)
		if err != nil {
			u.logger.Warn("skipping image", "path", path, "error", err)
			return nil
		}
		if changed {
			upscaled++
		}
		return nil
	})
	if err != nil {
		return upscaled, fmt.Errorf("walk %s: %w", root, err)
	}
	return upscaled, nil
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

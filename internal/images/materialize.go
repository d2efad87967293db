package images

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Materializer persists the web-sized copy of each page.
type Materializer struct {
	store    Store
	maxWidth int
	format   string
	logger   *slog.Logger
}

func NewMaterializer(store Store, maxWidth int, format string, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	if format != "jpg" {
		format = "png"
	}
	return &Materializer{store: store, maxWidth: maxWidth, format: format, logger: logger}
}

// FileName is the deterministic catalog image name for a page.
func (m *Materializer) FileName(page int) string {
	return fmt.Sprintf("page_%03d.%s", page, m.format)
}

// Fit downsizes img to the configured width with Lanczos resampling; narrower images
// are returned unchanged.
func (m *Materializer) Fit(img image.Image) image.Image {
	w := img.Bounds().Dx()
	if m.maxWidth <= 0 || w <= m.maxWidth {
		return img
	}
	return imaging.Resize(img, m.maxWidth, 0, imaging.Lanczos)
}

// Materialize writes the page image into dir and returns its file name.
func (m *Materializer) Materialize(img image.Image, page int, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	name := m.FileName(page)
	out := m.Fit(img)
	if err := m.store.Save(out, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	m.logger.Debug("catalog image written",
		"page", page,
		"file", name,
		"width", out.Bounds().Dx(),
		"height", out.Bounds().Dy(),
	)
	return name, nil
}

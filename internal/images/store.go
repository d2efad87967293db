package images

import (
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Store decodes and persists raster images.
type Store interface {
	Open(path string) (image.Image, error)
	Save(img image.Image, path string) error
}

// FSStore is the filesystem Store. JPEG files are written at JPEGQuality, PNG files at
// best compression.
type FSStore struct {
	JPEGQuality int
}

func NewFSStore(jpegQuality int) *FSStore {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 85
	}
	return &FSStore{JPEGQuality: jpegQuality}
}

func (s *FSStore) Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *FSStore) Save(img image.Image, path string) error {
	var opts []imaging.EncodeOption
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		opts = append(opts, imaging.JPEGQuality(s.JPEGQuality))
	case ".png":
		opts = append(opts, imaging.PNGCompressionLevel(png.BestCompression))
	}
	if err := imaging.Save(img, path, opts...); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

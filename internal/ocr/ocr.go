package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Engines selectable through Config.Engine.
const (
	EngineExec      = "exec"
	EngineGosseract = "gosseract"
)

// ErrEngineUnavailable is returned when the binary was built without the requested engine.
var ErrEngineUnavailable = errors.New("ocr engine not compiled in (build with -tags gosseract)")

type Config struct {
	Engine      string // EngineExec (default) or EngineGosseract
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
}

// Options is the per-call language and segmentation configuration.
type Options struct {
	Languages []string
	PSM       int
	OEM       int // 0 leaves the engine default
	Timeout   time.Duration
}

// Lang renders the languages the way tesseract expects them ("spa+eng").
func (o Options) Lang() string {
	if len(o.Languages) == 0 {
		return "eng"
	}
	return strings.Join(o.Languages, "+")
}

// Recognizer turns one raster image into text. Implementations return "" with a nil error
// when the engine is missing, fails or times out; an error is returned only when ctx
// itself is done.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string, opts Options) (string, error)
}

// New builds the recognizer selected by cfg.Engine.
func New(cfg Config, logger *slog.Logger) (Recognizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Engine {
	case "", EngineExec:
		return NewTesseract(cfg, NewExecRunner(logger), logger), nil
	case EngineGosseract:
		return newGosseract(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}

// withTimeout derives the per-call context; a zero timeout only inherits ctx.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

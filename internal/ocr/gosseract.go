//go:build gosseract

package ocr

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract recognizes in-process through libtesseract. A client is created per call,
// since gosseract clients are not safe for concurrent use.
type Gosseract struct {
	cfg    Config
	logger *slog.Logger
}

func newGosseract(cfg Config, logger *slog.Logger) (Recognizer, error) {
	return &Gosseract{cfg: cfg, logger: logger}, nil
}

type gosseractResult struct {
	text string
	err  error
}

func (g *Gosseract) Recognize(ctx context.Context, imagePath string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	callCtx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	client := gosseract.NewClient()
	if g.cfg.TessdataDir != "" {
		client.TessdataPrefix = g.cfg.TessdataDir
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		g.logger.Warn("gosseract language rejected", "languages", langs, "error", err)
		return "", nil
	}
	if opts.PSM > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PSM)); err != nil {
			g.logger.Warn("gosseract page segmentation rejected", "psm", opts.PSM, "error", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		client.Close()
		g.logger.Warn("gosseract could not load image", "path", imagePath, "error", err)
		return "", nil
	}

	// The cgo call cannot be interrupted; on timeout the goroutine finishes and closes the client.
	done := make(chan gosseractResult, 1)
	go func() {
		defer client.Close()
		text, err := client.Text()
		done <- gosseractResult{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			g.logger.Warn("gosseract failed", "path", imagePath, "psm", opts.PSM, "error", r.err)
			return "", nil
		}
		return strings.TrimSpace(r.text), nil
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			g.logger.Warn("gosseract timed out", "path", imagePath, "psm", opts.PSM, "timeout", opts.Timeout)
		}
		return "", nil
	}
}

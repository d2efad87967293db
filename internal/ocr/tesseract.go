package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Tesseract runs the tesseract CLI through a Runner.
type Tesseract struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	missingOnce sync.Once
}

func NewTesseract(cfg Config, runner Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

// Recognize runs `tesseract <image> stdout -l <lang> --psm N [--oem N] [--tessdata-dir D]`
// and returns its output with surrounding whitespace trimmed.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string, opts Options) (string, error) {
	out, err := t.run(ctx, imagePath, opts)
	if err != nil || out == nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// run returns nil output for every recoverable failure and an error only when ctx is done.
func (t *Tesseract) run(ctx context.Context, imagePath string, opts Options, extra ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	callCtx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	args := append(t.args(imagePath, opts), extra...)
	out, errb, err := t.runner.Run(callCtx, t.cfg.Tesseract, args...)
	if err == nil {
		return out, nil
	}

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, exec.ErrNotFound):
		t.missingOnce.Do(func() {
			t.logger.Warn("tesseract not found, pages will carry no text", "bin", t.cfg.Tesseract)
		})
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		t.logger.Warn("tesseract timed out",
			"path", imagePath,
			"psm", opts.PSM,
			"timeout", opts.Timeout,
		)
	default:
		t.logger.Warn("tesseract failed",
			"path", imagePath,
			"psm", opts.PSM,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(string(errb), 1<<10),
		)
	}
	return nil, nil
}

func (t *Tesseract) args(imagePath string, opts Options) []string {
	args := []string{imagePath, "stdout", "-l", opts.Lang()}
	if opts.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", opts.PSM))
	}
	if opts.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", opts.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

package ocr

import (
	"context"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"
)

// Pass sources reported in Result.Source.
const (
	SourceNone         = ""
	SourceOriginal     = "original"
	SourcePreprocessed = "preprocessed"
)

// VariantWriter writes a recognition-optimized copy of src to dst.
type VariantWriter interface {
	WriteVariant(src, dst string) error
}

// Result is the fused outcome of both passes.
type Result struct {
	Text            string
	Source          string
	OriginalLen     int
	PreprocessedLen int
	Duration        time.Duration
}

// DualPass recognizes a page twice, once as scanned and once preprocessed, and keeps the
// longer non-empty text. Ties go to the original pass.
type DualPass struct {
	rec       Recognizer
	variant   VariantWriter
	primary   Options
	secondary Options
	tmpDir    string
	logger    *slog.Logger
}

// NewDualPass wires the fuser. A nil variant writer disables the second pass.
func NewDualPass(rec Recognizer, variant VariantWriter, primary, secondary Options, tmpDir string, logger *slog.Logger) *DualPass {
	if logger == nil {
		logger = slog.Default()
	}
	return &DualPass{
		rec:       rec,
		variant:   variant,
		primary:   primary,
		secondary: secondary,
		tmpDir:    tmpDir,
		logger:    logger,
	}
}

// Recognize never fails for a bad page; the error is non-nil only when ctx is done.
func (d *DualPass) Recognize(ctx context.Context, imagePath string) (Result, error) {
	start := time.Now()

	original, err := d.rec.Recognize(ctx, imagePath, d.primary)
	if err != nil {
		return Result{}, err
	}
	preprocessed, err := d.secondPass(ctx, imagePath)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		OriginalLen:     utf8.RuneCountInString(original),
		PreprocessedLen: utf8.RuneCountInString(preprocessed),
	}
	switch {
	case res.OriginalLen == 0 && res.PreprocessedLen == 0:
		res.Source = SourceNone
	case res.PreprocessedLen > res.OriginalLen:
		res.Text, res.Source = preprocessed, SourcePreprocessed
	default:
		res.Text, res.Source = original, SourceOriginal
	}
	res.Duration = time.Since(start)

	d.logger.Debug("dual pass recognized",
		"path", imagePath,
		"original_len", res.OriginalLen,
		"preprocessed_len", res.PreprocessedLen,
		"source", res.Source,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// secondPass writes the preprocessed variant to a temp file that is removed on return.
func (d *DualPass) secondPass(ctx context.Context, imagePath string) (string, error) {
	if d.variant == nil {
		return "", nil
	}
	tmp, err := os.CreateTemp(d.tmpDir, "catalog-prep-*.png")
	if err != nil {
		d.logger.Warn("preprocessed pass skipped", "path", imagePath, "error", err)
		return "", nil
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			d.logger.Warn("failed to remove temp image", "path", tmpPath, "error", rmErr)
		}
	}()

	if err := d.variant.WriteVariant(imagePath, tmpPath); err != nil {
		d.logger.Warn("preprocessed pass skipped", "path", imagePath, "error", err)
		return "", nil
	}
	return d.rec.Recognize(ctx, tmpPath, d.secondary)
}

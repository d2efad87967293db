package ocr

import (
	"context"
	"strconv"
	"strings"
)

// MeanConfidence runs tesseract in TSV mode and returns the mean word confidence in 0..1.
// Zero means no scored words, or a recoverable failure.
func (t *Tesseract) MeanConfidence(ctx context.Context, imagePath string, opts Options) (float32, error) {
	out, err := t.run(ctx, imagePath, opts, "tsv")
	if err != nil {
		return 0, err
	}
	return parseTSVConfidence(string(out)), nil
}

func parseTSVConfidence(tsv string) float32 {
	lines := strings.Split(tsv, "\n")
	// conf column is the 11th of 12; header line includes "conf"
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[10])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}

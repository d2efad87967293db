package pipeline

import (
	"fmt"
	"io"
	"time"
)

// Summary is the end-of-run report.
type Summary struct {
	RunID         string
	Total         int
	WithData      int // price, keywords or material found
	WithoutData   int
	ImageFailures int
	Recovered     int
	Duration      time.Duration
}

func Summarize(runID string, results []PageResult, d time.Duration) *Summary {
	s := &Summary{RunID: runID, Total: len(results), Duration: d}
	for _, r := range results {
		if r.Product.HasExtractedData() {
			s.WithData++
		} else {
			s.WithoutData++
		}
		if r.ImageFailed {
			s.ImageFailures++
		}
		if r.Recovered {
			s.Recovered++
		}
	}
	return s
}

// Print writes the human-readable summary.
func (s *Summary) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Páginas procesadas: %d\nCon datos extraídos: %d\nSin datos: %d\nImágenes con error: %d\nRun: %s (%s)\n",
		s.Total, s.WithData, s.WithoutData, s.ImageFailures, s.RunID, s.Duration.Round(time.Millisecond),
	)
	return err
}

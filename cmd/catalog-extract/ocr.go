package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
)

// ocrReport is what the debug command prints for one image.
type ocrReport struct {
	Image           string   `json:"image"`
	Source          string   `json:"source"`
	OriginalLen     int      `json:"original_len"`
	PreprocessedLen int      `json:"preprocessed_len"`
	DurationMS      int64    `json:"duration_ms"`
	Confidence      *float32 `json:"confidence,omitempty"`
	Text            string   `json:"text"`
	Fields          any      `json:"fields"`
}

func newOCRCmd(a *app) *cobra.Command {
	var withConfidence bool
	cmd := &cobra.Command{
		Use:   "ocr <image>",
		Short: "Recognize one page image and print the extracted fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return err
			}

			c, _, _, err := a.buildRecognition()
			if err != nil {
				return err
			}

			res, err := c.dual.Recognize(ctx, path)
			if err != nil {
				return err
			}
			text := res.Text
			report := ocrReport{
				Image:           path,
				Source:          res.Source,
				OriginalLen:     res.OriginalLen,
				PreprocessedLen: res.PreprocessedLen,
				DurationMS:      res.Duration.Milliseconds(),
				Text:            text,
				Fields:          c.extractor.Extract(ocr.Clean(text)),
			}

			if t, ok := c.recognizer.(*ocr.Tesseract); ok && withConfidence {
				conf, err := t.MeanConfidence(ctx, path, a.ocrOptions(a.cfg.OCR.PrimaryPSM))
				if err != nil {
					return err
				}
				report.Confidence = &conf
			}

			out, err := export.MarshalJSON(report)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(os.Stdout, string(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&withConfidence, "confidence", false, "also report tesseract's mean word confidence")
	return cmd
}

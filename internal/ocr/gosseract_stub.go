//go:build !gosseract

package ocr

import "log/slog"

func newGosseract(Config, *slog.Logger) (Recognizer, error) {
	return nil, ErrEngineUnavailable
}

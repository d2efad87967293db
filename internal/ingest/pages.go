package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// PageFile is one source image. Page is its 1-based position after numeric sorting;
// Ordinal is the number found in the file name.
type PageFile struct {
	Page    int
	Ordinal int
	Path    string
}

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// ListPages enumerates the page images directly under dir, sorted by the numeric value
// of their file stem ("2.png" before "10.png"). Files whose stem is not a number are
// skipped with a warning. A missing or unreadable dir is fatal.
func ListPages(dir string, logger *slog.Logger) ([]PageFile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(dir) == "" {
		return nil, common.NewAppError(common.CodeInputDir, "input directory is required", common.ErrInputDir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.NewAppError(common.CodeInputDir, fmt.Sprintf("read %s: %v", dir, err), common.ErrInputDir)
	}

	var pages []PageFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || IsHidden(name) || !AllowedExt(filepath.Ext(name)) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		n, err := strconv.Atoi(stem)
		if err != nil || n < 0 {
			logger.Warn("skipping page image without a numeric name", "file", name)
			continue
		}
		pages = append(pages, PageFile{Ordinal: n, Path: filepath.Join(dir, name)})
	}

	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Ordinal != pages[j].Ordinal {
			return pages[i].Ordinal < pages[j].Ordinal
		}
		return pages[i].Path < pages[j].Path
	})
	for i := range pages {
		pages[i].Page = i + 1
	}
	logger.Debug("pages enumerated", "dir", dir, "count", len(pages))
	return pages, nil
}

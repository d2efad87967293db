package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Fingerprint hashes the names and contents of pages in order. Two listings with the
// same fingerprint produce the same catalog.
func Fingerprint(pages []PageFile) (string, error) {
	h := sha256.New()
	for _, p := range pages {
		fmt.Fprintf(h, "%d:%s\n", p.Page, filepath.Base(p.Path))
		if err := hashFile(h, p.Path); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return nil
}

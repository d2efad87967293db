package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// Artifact file names inside the output directory.
const (
	DatabaseFile    = "productos.json"
	SearchIndexFile = "search_index.json"
	ModuleFile      = "catalogo-productos.js"
	SQLiteFile      = "productos.db"
	ImagesDir       = "images"

	stagingPrefix = ".staging-"
)

// Stage is a scratch directory inside the output directory. Everything a run produces
// is written here first and moved into place by Commit, so a failed run leaves the
// previous artifacts untouched.
type Stage struct {
	outputDir string
	dir       string
}

// NewStage creates the output directory if needed and a fresh staging directory in it.
// Failure means the output directory is not writable.
func NewStage(outputDir string) (*Stage, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, common.NewAppError(common.CodeOutputDir, "output directory is required", common.ErrOutputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, common.NewAppError(common.CodeOutputDir, fmt.Sprintf("create %s: %v", outputDir, err), common.ErrOutputDir)
	}
	dir, err := os.MkdirTemp(outputDir, stagingPrefix+"*")
	if err != nil {
		return nil, common.NewAppError(common.CodeOutputDir, fmt.Sprintf("stage in %s: %v", outputDir, err), common.ErrOutputDir)
	}
	if err := os.Mkdir(filepath.Join(dir, ImagesDir), 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return nil, common.NewAppError(common.CodeOutputDir, fmt.Sprintf("stage images: %v", err), common.ErrOutputDir)
	}
	return &Stage{outputDir: outputDir, dir: dir}, nil
}

func (s *Stage) Dir() string       { return s.dir }
func (s *Stage) OutputDir() string { return s.outputDir }

// ImagesDir is where catalog images are materialized during the run.
func (s *Stage) ImagesDir() string { return filepath.Join(s.dir, ImagesDir) }

// Path returns the staged location of an artifact.
func (s *Stage) Path(name string) string { return filepath.Join(s.dir, name) }

// artifacts lists everything Commit owns in the output directory, the database last.
var artifacts = []string{ImagesDir, SQLiteFile, SearchIndexFile, ModuleFile, DatabaseFile}

var rename = os.Rename

// Commit moves the staged artifacts into the output directory and removes the stage.
// Every existing artifact is retired first, so one that this run did not produce
// (productos.db after disabling SQLite) is gone afterwards. If any move fails, the
// moved artifacts are taken back and the retired ones restored.
func (s *Stage) Commit() error {
	if info, err := os.Stat(s.ImagesDir()); err != nil || !info.IsDir() {
		return s.commitErr("stage images", fmt.Errorf("missing %s", s.ImagesDir()))
	}

	var retired, published []string
	rollback := func() {
		for _, name := range published {
			_ = os.RemoveAll(filepath.Join(s.outputDir, name))
		}
		for _, name := range retired {
			_ = rename(s.retiredPath(name), filepath.Join(s.outputDir, name))
		}
	}

	for _, name := range artifacts {
		dst := filepath.Join(s.outputDir, name)
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			continue
		}
		if err := rename(dst, s.retiredPath(name)); err != nil {
			rollback()
			return s.commitErr("retire "+name, err)
		}
		retired = append(retired, name)
	}

	for _, name := range artifacts {
		src := s.Path(name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := rename(src, filepath.Join(s.outputDir, name)); err != nil {
			rollback()
			return s.commitErr("publish "+name, err)
		}
		published = append(published, name)
	}
	return s.Discard()
}

func (s *Stage) retiredPath(name string) string {
	return filepath.Join(s.dir, ".old-"+name)
}

// Discard removes the staging directory. It is safe to call after Commit.
func (s *Stage) Discard() error {
	return os.RemoveAll(s.dir)
}

func (s *Stage) commitErr(step string, err error) error {
	return common.NewAppError(common.CodeOutputDir, fmt.Sprintf("%s: %v", step, err), common.ErrOutputDir)
}

// CleanStaleStages removes staging directories left behind by interrupted runs.
func CleanStaleStages(outputDir string) error {
	matches, err := filepath.Glob(filepath.Join(outputDir, stagingPrefix+"*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.RemoveAll(m); err != nil {
			return err
		}
	}
	return nil
}

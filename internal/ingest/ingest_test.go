package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

func touch(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestListPages_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"10.png", "2.png", "1.jpg", "notes.txt", "cover.png", ".5.png"} {
		touch(t, dir, n, n)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "3.png"), 0o755))

	pages, err := ListPages(dir, nil)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, PageFile{Page: 1, Ordinal: 1, Path: filepath.Join(dir, "1.jpg")}, pages[0])
	assert.Equal(t, PageFile{Page: 2, Ordinal: 2, Path: filepath.Join(dir, "2.png")}, pages[1])
	assert.Equal(t, PageFile{Page: 3, Ordinal: 10, Path: filepath.Join(dir, "10.png")}, pages[2])
}

func TestListPages_MissingDirIsFatal(t *testing.T) {
	_, err := ListPages(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInputDir))
	assert.True(t, common.IsFatal(err))

	_, err = ListPages(" ", nil)
	assert.ErrorIs(t, err, common.ErrInputDir)
}

func TestListPages_Empty(t *testing.T) {
	pages, err := ListPages(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.png", "a")
	touch(t, dir, "2.png", "b")

	pages, err := ListPages(dir, nil)
	require.NoError(t, err)
	first, err := Fingerprint(pages)
	require.NoError(t, err)
	again, err := Fingerprint(pages)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	touch(t, dir, "2.png", "changed")
	changed, err := Fingerprint(pages)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	_, err = Fingerprint([]PageFile{{Page: 1, Path: filepath.Join(dir, "missing.png")}})
	assert.Error(t, err)
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.png", "a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var builds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{Dir: dir, Debounce: 20 * time.Millisecond, InitialBuild: true}, nil,
			func(context.Context) error {
				builds.Add(1)
				return nil
			})
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	touch(t, dir, "2.png", "b")
	require.Eventually(t, func() bool { return builds.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	// files the catalog ignores do not trigger a rebuild
	touch(t, dir, "notes.txt", "x")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), builds.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestStartWatcher_RequiresDir(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}

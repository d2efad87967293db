package ocr

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecognizer answers by pass: the original image path gets original, anything else preprocessed.
type fakeRecognizer struct {
	mu           sync.Mutex
	original     string
	preprocessed string
	calls        []Options
	origPath     string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()
	if imagePath == f.origPath {
		return f.original, nil
	}
	return f.preprocessed, nil
}

type fakeVariant struct {
	dst string
	err error
}

func (f *fakeVariant) WriteVariant(_, dst string) error {
	f.dst = dst
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte("png"), 0o600)
}

var (
	primaryOpts   = Options{Languages: []string{"spa", "eng"}, PSM: 3}
	secondaryOpts = Options{Languages: []string{"spa", "eng"}, PSM: 6}
)

func TestDualPass_KeepsLongerText(t *testing.T) {
	long := strings.Repeat("x", 50)
	rec := &fakeRecognizer{origPath: "page.png", original: "abcde", preprocessed: long}
	variant := &fakeVariant{}
	fuser := NewDualPass(rec, variant, primaryOpts, secondaryOpts, t.TempDir(), nil)

	res, err := fuser.Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Equal(t, long, res.Text)
	assert.Equal(t, SourcePreprocessed, res.Source)
	assert.Equal(t, 5, res.OriginalLen)
	assert.Equal(t, 50, res.PreprocessedLen)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, 3, rec.calls[0].PSM)
	assert.Equal(t, 6, rec.calls[1].PSM)

	require.NotEmpty(t, variant.dst)
	assert.NoFileExists(t, variant.dst)
}

func TestDualPass_TieGoesToOriginal(t *testing.T) {
	rec := &fakeRecognizer{origPath: "page.png", original: "anillo", preprocessed: "aniII0"}
	res, err := NewDualPass(rec, &fakeVariant{}, primaryOpts, secondaryOpts, t.TempDir(), nil).
		Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Equal(t, "anillo", res.Text)
	assert.Equal(t, SourceOriginal, res.Source)
}

func TestDualPass_EmptyPassDoesNotFailTheOther(t *testing.T) {
	rec := &fakeRecognizer{origPath: "page.png", original: "", preprocessed: "PULSERA PLATA"}
	res, err := NewDualPass(rec, &fakeVariant{}, primaryOpts, secondaryOpts, t.TempDir(), nil).
		Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Equal(t, "PULSERA PLATA", res.Text)

	rec = &fakeRecognizer{origPath: "page.png"}
	res, err = NewDualPass(rec, &fakeVariant{}, primaryOpts, secondaryOpts, t.TempDir(), nil).
		Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, SourceNone, res.Source)
}

func TestDualPass_PreprocessFailureSkipsSecondPass(t *testing.T) {
	rec := &fakeRecognizer{origPath: "page.png", original: "ANILLO", preprocessed: "never used"}
	variant := &fakeVariant{err: errors.New("decode failed")}
	res, err := NewDualPass(rec, variant, primaryOpts, secondaryOpts, t.TempDir(), nil).
		Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Equal(t, "ANILLO", res.Text)
	assert.Len(t, rec.calls, 1)
	assert.NoFileExists(t, variant.dst)
}

func TestDualPass_NilVariantRunsOnePass(t *testing.T) {
	rec := &fakeRecognizer{origPath: "page.png", original: "ANILLO"}
	res, err := NewDualPass(rec, nil, primaryOpts, secondaryOpts, "", nil).
		Recognize(context.Background(), "page.png")
	require.NoError(t, err)
	assert.Equal(t, "ANILLO", res.Text)
	assert.Len(t, rec.calls, 1)
}

func TestDualPass_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &fakeRecognizer{origPath: "page.png", original: "ANILLO"}
	_, err := NewDualPass(rec, &fakeVariant{}, primaryOpts, secondaryOpts, t.TempDir(), nil).Recognize(ctx, "page.png")
	assert.ErrorIs(t, err, context.Canceled)
}

package ocr

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	name   string
	args   []string
	stdout []byte
	stderr []byte
	err    error
	block  bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	if f.block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return f.stdout, f.stderr, f.err
}

var spaEng = Options{Languages: []string{"spa", "eng"}, PSM: 3, OEM: 3, Timeout: time.Second}

func TestTesseract_RecognizeArgsAndCleanup(t *testing.T) {
	r := &fakeRunner{stdout: []byte("ANILLO  ORO\r\n\n\n\n$85  \n")}
	tess := NewTesseract(Config{TessdataDir: "/opt/tessdata"}, r, nil)

	text, err := tess.Recognize(context.Background(), "page.png", spaEng)
	require.NoError(t, err)
	assert.Equal(t, "ANILLO  ORO\r\n\n\n\n$85", text, "only surrounding whitespace is trimmed")
	assert.Equal(t, "ANILLO ORO\n\n$85", Clean(text))
	assert.Equal(t, "tesseract", r.name)
	assert.Equal(t, []string{
		"page.png", "stdout", "-l", "spa+eng", "--psm", "3", "--oem", "3", "--tessdata-dir", "/opt/tessdata",
	}, r.args)
}

func TestTesseract_MissingBinaryIsEmpty(t *testing.T) {
	r := &fakeRunner{err: &exec.Error{Name: "tesseract", Err: exec.ErrNotFound}}
	tess := NewTesseract(Config{}, r, nil)

	for i := 0; i < 2; i++ {
		text, err := tess.Recognize(context.Background(), "page.png", spaEng)
		require.NoError(t, err)
		assert.Empty(t, text)
	}
}

func TestTesseract_FailureIsEmpty(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1"), stderr: []byte("Error in pixReadStream")}
	text, err := NewTesseract(Config{}, r, nil).Recognize(context.Background(), "broken.png", spaEng)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTesseract_TimeoutIsEmpty(t *testing.T) {
	r := &fakeRunner{block: true}
	opts := spaEng
	opts.Timeout = 20 * time.Millisecond

	text, err := NewTesseract(Config{}, r, nil).Recognize(context.Background(), "slow.png", opts)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestTesseract_ParentCancellationIsAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseract(Config{}, &fakeRunner{}, nil).Recognize(ctx, "page.png", spaEng)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTesseract_MeanConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t800\t600\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t90\tANILLO\n" +
		"5\t1\t1\t1\t1\t2\t70\t10\t30\t20\t70\tORO\n"
	r := &fakeRunner{stdout: []byte(tsv)}
	conf, err := NewTesseract(Config{}, r, nil).MeanConfidence(context.Background(), "page.png", spaEng)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, conf, 0.0001)
	assert.Equal(t, "tsv", r.args[len(r.args)-1])

	assert.Zero(t, parseTSVConfidence(""))
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := New(Config{Engine: "paddle"}, nil)
	assert.Error(t, err)

	rec, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, rec)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "a b\n\nc", Clean("  a\t\tb  \n-----\nc\f"))
	assert.Equal(t, "x\n\ny", Clean("x\n\n\n\n\ny"))
}

package images

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{R: 20, G: 40, B: 60, A: 255})
	}
	return img
}

func TestPreprocessor_ApplyIsGrayAndDeterministic(t *testing.T) {
	p := NewPreprocessor(NewFSStore(0), 2.0, 1.2)
	src := testPage(12, 9)

	a := p.Apply(src)
	b := p.Apply(src)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, src.Bounds().Size(), a.Bounds().Size())

	for y := 0; y < a.Bounds().Dy(); y++ {
		for x := 0; x < a.Bounds().Dx(); x++ {
			c := a.NRGBAAt(x, y)
			require.Equal(t, c.R, c.G)
			require.Equal(t, c.G, c.B)
		}
	}
}

func TestPreprocessor_Defaults(t *testing.T) {
	p := NewPreprocessor(nil, 0.5, 0)
	assert.Equal(t, 2.0, p.contrast)
	assert.Equal(t, 1.2, p.brightness)
}

func TestBrighten(t *testing.T) {
	img := imaging.New(2, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 128})

	out := brighten(img, 1.2)
	assert.Equal(t, color.NRGBA{R: 120, G: 120, B: 120, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, out.NRGBAAt(1, 0))
}

func TestContrastPercentage(t *testing.T) {
	assert.InDelta(t, 50.0, contrastPercentage(2.0), 1e-9)
	assert.InDelta(t, 99.0, contrastPercentage(1000), 1e-9)
}

func TestPreprocessor_WriteVariant(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(90)
	src := filepath.Join(dir, "1.png")
	require.NoError(t, store.Save(testPage(20, 10), src))

	dst := filepath.Join(dir, "variant.png")
	require.NoError(t, NewPreprocessor(store, 2.0, 1.2).WriteVariant(src, dst))

	out, err := store.Open(dst)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 10), out.Bounds().Size())

	assert.Error(t, NewPreprocessor(store, 2.0, 1.2).WriteVariant(filepath.Join(dir, "missing.png"), dst))
}

func TestMaterializer_DownscalesOnly(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(85)
	m := NewMaterializer(store, 800, "png", nil)

	name, err := m.Materialize(testPage(1600, 400), 1, dir)
	require.NoError(t, err)
	assert.Equal(t, "page_001.png", name)
	out, err := store.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(800, 200), out.Bounds().Size())

	name, err = m.Materialize(testPage(400, 300), 12, dir)
	require.NoError(t, err)
	assert.Equal(t, "page_012.png", name)
	out, err = store.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(400, 300), out.Bounds().Size())
}

func TestMaterializer_JPEG(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(NewFSStore(80), 100, "jpg", nil)
	assert.Equal(t, "page_007.jpg", m.FileName(7))

	name, err := m.Materialize(testPage(300, 150), 7, filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "images", name))

	assert.Equal(t, "page_002.png", NewMaterializer(nil, 0, "webp", nil).FileName(2))
}

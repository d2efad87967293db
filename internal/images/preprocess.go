package images

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// sharpenKernel is the classic 3x3 sharpen mask; normalized it sums to one.
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// Preprocessor builds the recognition-optimized variant of a page: grayscale, contrast
// boost, sharpen, brightness boost.
type Preprocessor struct {
	store      Store
	contrast   float64
	brightness float64
}

// NewPreprocessor takes multiplicative factors: contrast must be > 1, brightness >= 1.
func NewPreprocessor(store Store, contrast, brightness float64) *Preprocessor {
	if contrast <= 1 {
		contrast = 2.0
	}
	if brightness < 1 {
		brightness = 1.2
	}
	return &Preprocessor{store: store, contrast: contrast, brightness: brightness}
}

// Apply is pure and deterministic.
func (p *Preprocessor) Apply(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, contrastPercentage(p.contrast))
	out = imaging.Convolve3x3(out, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
	return brighten(out, p.brightness)
}

// WriteVariant decodes src, applies the transform and saves the result at dst.
func (p *Preprocessor) WriteVariant(src, dst string) error {
	img, err := p.store.Open(src)
	if err != nil {
		return err
	}
	return p.store.Save(p.Apply(img), dst)
}

// contrastPercentage maps a stretch factor k onto imaging's percentage scale, where
// percentages in (0, 100) stretch around mid-gray by 1/(1-pct/100).
func contrastPercentage(k float64) float64 {
	return math.Min(100*(1-1/k), 99)
}

func brighten(img *image.NRGBA, factor float64) *image.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*factor)))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}

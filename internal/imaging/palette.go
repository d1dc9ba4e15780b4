package imaging

import (
	"image"
	"math"
	"sort"

	"github.com/EdlinOrg/prominentcolor"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mmcdole/xyzreader/internal/domain"
)

const (
	defaultMaxColors = 16
	// DefaultPhotoMaxColors is the palette size used for full article photos.
	DefaultPhotoMaxColors = 12

	// sampleSize is the edge images are resized to before clustering.
	sampleSize = 80
	// scanArea bounds how many pixels are scanned when counting colors.
	scanArea = 12544
)

// Vibrant target, in HSL terms.
const (
	vibrantMinSaturation    = 0.35
	vibrantTargetSaturation = 1.0
	vibrantMinLightness     = 0.3
	vibrantTargetLightness  = 0.5
	vibrantMaxLightness     = 0.7

	weightSaturation = 0.24
	weightLightness  = 0.52
	weightPopulation = 0.24
)

// Swatch is one quantized color of an image.
type Swatch struct {
	Color      domain.RGB
	Population int
	Hue        float64 // degrees
	Saturation float64
	Lightness  float64
}

// Sampler clusters an image into a palette with k-means and picks the
// vibrant swatch.
// A Sampler has no mutable state and can be shared across goroutines.
type Sampler struct {
	maxColors int
}

// NewSampler creates a sampler producing at most maxColors swatches.
func NewSampler(maxColors int) *Sampler {
	if maxColors <= 0 {
		maxColors = defaultMaxColors
	}
	return &Sampler{maxColors: maxColors}
}

// Sample returns the vibrant color of img, ok=false when no swatch fits.
func (s *Sampler) Sample(img image.Image) (domain.RGB, bool) {
	sw, ok := s.Vibrant(img)
	if !ok {
		return domain.RGB{}, false
	}
	return sw.Color, true
}

// Vibrant returns the highest scoring swatch inside the vibrant bounds.
func (s *Sampler) Vibrant(img image.Image) (Swatch, bool) {
	swatches := s.Swatches(img)
	if len(swatches) == 0 {
		return Swatch{}, false
	}

	maxPop := 0
	for _, sw := range swatches {
		if sw.Population > maxPop {
			maxPop = sw.Population
		}
	}

	var (
		best      Swatch
		bestScore = -1.0
	)
	for _, sw := range swatches {
		if sw.Saturation < vibrantMinSaturation ||
			sw.Lightness < vibrantMinLightness || sw.Lightness > vibrantMaxLightness {
			continue
		}
		score := weightSaturation*(1-math.Abs(sw.Saturation-vibrantTargetSaturation)) +
			weightLightness*(1-math.Abs(sw.Lightness-vibrantTargetLightness)) +
			weightPopulation*float64(sw.Population)/float64(maxPop)
		if score > bestScore {
			best, bestScore = sw, score
		}
	}
	return best, bestScore >= 0
}

// Swatches clusters img into at most maxColors swatches, most populous first.
// Near-black, near-white and skin-tone-adjacent colors are dropped.
func (s *Sampler) Swatches(img image.Image) []Swatch {
	k := distinctColors(img, s.maxColors)
	if k == 0 {
		return nil
	}

	var (
		items []prominentcolor.ColorItem
		err   error
	)
	// k-means can fail to seed k centroids on flat images; retry smaller
	for ; k > 0; k-- {
		items, err = prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping, sampleSize, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil
	}

	swatches := make([]Swatch, 0, len(items))
	for _, it := range items {
		if it.Cnt <= 0 {
			continue
		}
		sw := newSwatch(it)
		if ignored(sw) {
			continue
		}
		swatches = append(swatches, sw)
	}
	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].Population > swatches[j].Population
	})
	return swatches
}

func newSwatch(it prominentcolor.ColorItem) Swatch {
	c := domain.RGB{
		R: uint8(min(it.Color.R, 255)),
		G: uint8(min(it.Color.G, 255)),
		B: uint8(min(it.Color.B, 255)),
	}
	h, s, l := toColorful(c).Hsl()
	return Swatch{Color: c, Population: it.Cnt, Hue: h, Saturation: s, Lightness: l}
}

// distinctColors counts the opaque colors of img, stopping at limit.
func distinctColors(img image.Image, limit int) int {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return 0
	}

	step := 1
	if area := w * h; area > scanArea {
		step = int(math.Ceil(math.Sqrt(float64(area) / scanArea)))
	}

	seen := make(map[uint32]struct{}, limit)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			seen[(r>>8)<<16|(g>>8)<<8|b>>8] = struct{}{}
			if len(seen) >= limit {
				return limit
			}
		}
	}
	return len(seen)
}

func ignored(sw Swatch) bool {
	isBlack := sw.Lightness <= 0.05
	isWhite := sw.Lightness >= 0.95
	nearRedILine := sw.Hue >= 10 && sw.Hue <= 37 && sw.Saturation <= 0.82
	return isBlack || isWhite || nearRedILine
}

func toColorful(c domain.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampler_SolidVibrant(t *testing.T) {
	s := NewSampler(16)
	c, ok := s.Sample(solid(20, 20, color.RGBA{B: 255, A: 255}))
	require.True(t, ok)
	assert.InDelta(t, 255, int(c.B), 4)
	assert.InDelta(t, 0, int(c.R), 4)
	assert.InDelta(t, 0, int(c.G), 4)
}

func TestSampler_NoVibrantSwatch(t *testing.T) {
	s := NewSampler(16)
	tests := []struct {
		name string
		img  image.Image
	}{
		{"gray", solid(10, 10, color.RGBA{R: 128, G: 128, B: 128, A: 255})},
		{"white", solid(10, 10, color.White)},
		{"black", solid(10, 10, color.Black)},
		{"transparent", solid(10, 10, color.RGBA{})},
		{"empty", image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := s.Sample(tt.img)
			assert.False(t, ok)
		})
	}
}

func TestSampler_PicksVibrantOverDominantGray(t *testing.T) {
	img := solid(40, 40, color.RGBA{R: 120, G: 120, B: 120, A: 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{G: 200, B: 60, A: 255})
		}
	}

	c, ok := NewSampler(12).Sample(img)
	require.True(t, ok)
	assert.Greater(t, int(c.G), int(c.R))
	assert.Greater(t, int(c.G), int(c.B))
}

func TestSampler_SwatchesSortedByPopulation(t *testing.T) {
	img := solid(30, 30, color.RGBA{R: 30, G: 60, B: 220, A: 255})
	for y := 0; y < 5; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 200, B: 40, A: 255})
		}
	}

	sw := NewSampler(16).Swatches(img)
	require.Len(t, sw, 2)
	assert.Greater(t, sw[0].Population, sw[1].Population)
}

func TestSampler_LargeImageIsDownsampled(t *testing.T) {
	img := solid(800, 600, color.RGBA{R: 230, G: 20, B: 90, A: 255})
	sw := NewSampler(16).Swatches(img)
	require.Len(t, sw, 1)
	assert.LessOrEqual(t, sw[0].Population, sampleSize*sampleSize)
}

func TestSampler_PhotoPaletteIsSmaller(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 180, A: 255})
		}
	}

	assert.LessOrEqual(t, len(NewSampler(DefaultPhotoMaxColors).Swatches(img)), DefaultPhotoMaxColors)
	assert.LessOrEqual(t, len(NewSampler(0).Swatches(img)), defaultMaxColors)
}

func TestDistinctColors(t *testing.T) {
	img := solid(4, 4, color.RGBA{R: 10, A: 255})
	img.Set(0, 0, color.RGBA{G: 10, A: 255})
	img.Set(1, 0, color.RGBA{B: 10, A: 255})
	img.Set(2, 0, color.RGBA{})

	assert.Equal(t, 3, distinctColors(img, 16))
	assert.Equal(t, 2, distinctColors(img, 2))
	assert.Equal(t, 0, distinctColors(image.NewRGBA(image.Rect(0, 0, 0, 0)), 16))
}

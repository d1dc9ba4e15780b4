package imaging

import (
	"context"
	"fmt"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// ColorResolver fetches an image and samples its theme color in one step.
type ColorResolver struct {
	fetcher domain.ImageFetcher
	sampler domain.ColorSampler
}

// NewColorResolver combines a fetcher and a sampler.
func NewColorResolver(fetcher domain.ImageFetcher, sampler domain.ColorSampler) *ColorResolver {
	return &ColorResolver{fetcher: fetcher, sampler: sampler}
}

// Resolve returns the vibrant color of the image at url. It fails with an
// error wrapping domain.ErrFetchFailed or domain.ErrNoSwatch.
func (r *ColorResolver) Resolve(ctx context.Context, url string) (domain.RGB, error) {
	img, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.RGB{}, err
	}
	c, ok := r.sampler.Sample(img)
	if !ok {
		return domain.RGB{}, fmt.Errorf("%w: %s", domain.ErrNoSwatch, url)
	}
	return c, nil
}

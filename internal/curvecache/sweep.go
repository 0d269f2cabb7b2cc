package curvecache

import (
	"context"
	"errors"

	"github.com/san-kum/nstar/internal/star"
)

// Stats counts how a cached sweep was served.
type Stats struct {
	Hits   int
	Misses int
}

// Sweep is star.Sweep backed by the cache: masses cached under the same
// options are read back, the rest are integrated and stored. Points that fail are returned but
// never cached.
func Sweep(ctx context.Context, c *Cache, integrator string, base star.Options, masses []float64, workers int) ([]star.Point, Stats, error) {
	points := make([]star.Point, len(masses))
	var missing []float64
	var missingIdx []int
	var stats Stats
	key := NewKey(integrator, base)

	for i, mn := range masses {
		p, err := c.Get(ctx, key, base.Model, base.Constants.CentralDensity, mn)
		switch {
		case err == nil:
			points[i] = p
			stats.Hits++
		case errors.Is(err, ErrNotFound):
			missing = append(missing, mn)
			missingIdx = append(missingIdx, i)
		default:
			return nil, stats, err
		}
	}
	stats.Misses = len(missing)
	if len(missing) == 0 {
		return points, stats, nil
	}

	fresh, err := star.Sweep(ctx, base, missing, workers)
	if err != nil {
		return nil, stats, err
	}
	for j, p := range fresh {
		points[missingIdx[j]] = p
		if p.Err != nil {
			continue
		}
		if err := c.Put(ctx, key, p); err != nil {
			return nil, stats, err
		}
	}
	return points, stats, nil
}

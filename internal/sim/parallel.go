package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/surface"
)

// Ensemble runs the same options under consecutive seeds, one engine per
// goroutine.
type Ensemble struct {
	newSurface func() (surface.Surface, error)
	opts       config.Options
	numRuns    int
	seedStart  int64
}

func NewEnsemble(newSurface func() (surface.Surface, error), opts config.Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{newSurface: newSurface, opts: opts, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.newSurface()
			if err != nil {
				errs[idx] = err
				return
			}
			opts := e.opts
			opts.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = New(s, opts).Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

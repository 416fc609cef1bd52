package render

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker is the number of row bands queued per worker.
const bandsPerWorker = 4

// FillParallel fills prims into the target using up to workers goroutines.
// The target is split into horizontal row bands; every band replays all
// primitives in order over its own rows, so the result matches sequential
// Fill calls exactly. Cancellation is checked between primitives.
func (r *Rasterizer) FillParallel(ctx context.Context, prims []Primitive, workers int) error {
	h := r.rowMax - r.rowMin
	if workers <= 1 || h < 2 {
		for _, p := range prims {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Fill(p)
		}
		return nil
	}

	bands := min(workers*bandsPerWorker, h)
	rows := (h + bands - 1) / bands
	Logger().Debug("parallel fill",
		"workers", workers,
		"bands", bands,
		"rows", rows,
		"primitives", len(prims))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := r.rowMin; y0 < r.rowMax; y0 += rows {
		band := r.band(y0, min(y0+rows, r.rowMax))
		g.Go(func() error {
			for _, p := range prims {
				if p.maxY < band.rowMin || p.minY >= band.rowMax {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				band.Fill(p)
			}
			return nil
		})
	}
	return g.Wait()
}

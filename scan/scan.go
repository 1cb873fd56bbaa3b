// Package scan decides which cells around a position currently host a cache
// and asks the store to make them visible.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/luck"
	"github.com/on-the-ground/geocoin/shared/log"
)

// ErrNotReleased is returned when a scan starts while caches from a previous
// scan are still visible.
var ErrNotReleased = errors.New("visible caches not released before scan")

// Materializer is the part of the cache store a scan drives.
type Materializer interface {
	Registry() *board.Registry
	Materialize(ctx context.Context, cell *board.Cell) (*geocache.Cache, error)
	CommitVisible(ctx context.Context) error
	VisibleCount() int
}

type Params struct {
	TileWidth        float64
	Radius           int     // Chebyshev radius in cells
	SpawnProbability float64 // a cell hosts a cache when its draw is strictly below this
	// Sampler draws the spawn decision; nil uses luck.Sample.
	Sampler geocache.Sampler
}

// Hosts reports whether cell hosts a cache under spawnProbability.
func Hosts(sampler geocache.Sampler, cell *board.Cell, spawnProbability float64) bool {
	var v float64
	if sampler == nil {
		v = luck.Sample(luck.SpawnSalt, cell.X(), cell.Y())
	} else {
		v = sampler.Sample(luck.SpawnSalt, cell.X(), cell.Y())
	}
	return v < spawnProbability
}

// Scan sweeps the square of cells within p.Radius of center's cell, in
// row-major order of (dx, dy), materializes every cell that hosts a cache,
// and commits the visible set once the sweep is done. The store must hold no
// visible caches when Scan starts.
func Scan(ctx context.Context, store Materializer, center board.Point, p Params) ([]*board.Cell, error) {
	if n := store.VisibleCount(); n != 0 {
		return nil, fmt.Errorf("%w: %d still visible", ErrNotReleased, n)
	}

	reg := store.Registry()
	origin := reg.CellForPoint(center, p.TileWidth)

	var cells []*board.Cell
	for dx := -p.Radius; dx <= p.Radius; dx++ {
		for dy := -p.Radius; dy <= p.Radius; dy++ {
			cell := reg.Canonicalize(origin.X()+dx, origin.Y()+dy)
			if !Hosts(p.Sampler, cell, p.SpawnProbability) {
				continue
			}
			if _, err := store.Materialize(ctx, cell); err != nil {
				return cells, fmt.Errorf("materialize %v: %w", cell, err)
			}
			cells = append(cells, cell)
		}
	}

	if err := store.CommitVisible(ctx); err != nil {
		return cells, err
	}
	log.Effect(ctx, log.LogDebug, "scan complete", map[string]interface{}{
		"center":  origin.Key().String(),
		"radius":  p.Radius,
		"visible": len(cells),
	})
	return cells, nil
}

package scan_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/luck"
	"github.com/on-the-ground/geocoin/scan"
	"github.com/on-the-ground/geocoin/shared/log"
	"github.com/on-the-ground/geocoin/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var center = board.Point{Lat: 36.98949379578401, Lng: -122.06277128548504}

func params() scan.Params {
	return scan.Params{TileWidth: 1e-4, Radius: 8, SpawnProbability: 0.1}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(board.NewRegistry(), geocache.NewFactory(nil, 100))
	require.NoError(t, err)
	return s
}

func TestScan_SelectsSpawningCells(t *testing.T) {
	ctx, end := log.WithTestEffectHandler(context.Background())
	defer end()
	s := newStore(t)

	cells, err := scan.Scan(ctx, s, center, params())
	require.NoError(t, err)

	origin := s.Registry().CellForPoint(center, 1e-4)
	want := 0
	for dx := -8; dx <= 8; dx++ {
		for dy := -8; dy <= 8; dy++ {
			if luck.Sample(luck.SpawnSalt, origin.X()+dx, origin.Y()+dy) < 0.1 {
				want++
			}
		}
	}
	assert.Len(t, cells, want)
	assert.Equal(t, want, s.VisibleCount())
	assert.Equal(t, want, s.KnownCount())

	for _, c := range cells {
		assert.LessOrEqual(t, abs(c.X()-origin.X()), 8)
		assert.LessOrEqual(t, abs(c.Y()-origin.Y()), 8)
		assert.Same(t, c, s.Registry().Canonicalize(c.X(), c.Y()))
		_, err := s.LookupVisible(c)
		assert.NoError(t, err)
	}
}

func TestScan_DeterministicAcrossRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := scan.Scan(ctx, s, center, params())
	require.NoError(t, err)
	require.NoError(t, s.ReleaseVisible(ctx))
	second, err := scan.Scan(ctx, s, center, params())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other := newStore(t)
	third, err := scan.Scan(ctx, other, center, params())
	require.NoError(t, err)
	require.Len(t, third, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key(), third[i].Key())
	}
}

func TestScan_RequiresRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p := params()
	p.SpawnProbability = 1
	_, err := scan.Scan(ctx, s, center, p)
	require.NoError(t, err)

	_, err = scan.Scan(ctx, s, center, p)
	assert.ErrorIs(t, err, scan.ErrNotReleased)
}

func TestScan_SquareSweepOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p := scan.Params{TileWidth: 1, Radius: 1, SpawnProbability: 1}
	cells, err := scan.Scan(ctx, s, board.Point{Lat: 0.5, Lng: 0.5}, p)
	require.NoError(t, err)

	var keys []board.Key
	for _, c := range cells {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []board.Key{
		{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
		{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1},
		{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	}, keys)
}

func TestScan_ZeroProbability(t *testing.T) {
	s := newStore(t)
	p := params()
	p.SpawnProbability = 0
	cells, err := scan.Scan(context.Background(), s, center, p)
	require.NoError(t, err)
	assert.Empty(t, cells)
	assert.Equal(t, 0, s.KnownCount())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package board_test

import (
	"testing"

	"github.com/on-the-ground/geocoin/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CanonicalizeIsIdempotent(t *testing.T) {
	reg := board.NewRegistry()

	for _, k := range []board.Key{{0, 0}, {3, 4}, {-7, 12}, {-1, -1}} {
		a := reg.Canonicalize(k.X, k.Y)
		b := reg.Canonicalize(k.X, k.Y)
		assert.Same(t, a, b)
		assert.Equal(t, k, a.Key())
	}
	assert.Equal(t, 4, reg.Len())
	assert.NotSame(t, reg.Canonicalize(1, 2), reg.Canonicalize(2, 1))
}

func TestRegistry_CellForPointFloors(t *testing.T) {
	reg := board.NewRegistry()
	const tile = 1e-4

	c := reg.CellForPoint(board.Point{Lat: 36.98949379578401, Lng: -122.06277128548504}, tile)
	assert.Equal(t, 369894, c.X())
	assert.Equal(t, -1220628, c.Y())
	assert.Same(t, c, reg.Canonicalize(369894, -1220628))

	neg := reg.CellForPoint(board.Point{Lat: -0.5, Lng: 0.5}, 1)
	assert.Equal(t, board.Key{X: -1, Y: 0}, neg.Key())
}

func TestRegistry_Reset(t *testing.T) {
	reg := board.NewRegistry()
	before := reg.Canonicalize(1, 1)
	reg.Reset()
	assert.Equal(t, 0, reg.Len())

	after := reg.Canonicalize(1, 1)
	assert.NotSame(t, before, after)
	assert.Equal(t, before.Key(), after.Key())
}

func TestKey_StringRoundTrip(t *testing.T) {
	for _, k := range []board.Key{{0, 0}, {-3, 42}, {100, -100}} {
		parsed, err := board.ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "-3,42", board.Key{X: -3, Y: 42}.String())

	for _, bad := range []string{"", "1", "a,2", "1,b", "1.5,2"} {
		_, err := board.ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestGeometry_Bounds(t *testing.T) {
	reg := board.NewRegistry()
	g := board.Geometry{TileWidth: 0.5}
	c := reg.Canonicalize(2, -3)

	b := g.Bounds(c)
	assert.Equal(t, board.Point{Lat: 1, Lng: -1.5}, b.SouthWest)
	assert.Equal(t, board.Point{Lat: 1.5, Lng: -1}, b.NorthEast)
	assert.True(t, b.Contains(g.Origin(c)))
	assert.False(t, b.Contains(b.NorthEast))
	assert.Same(t, c, reg.CellForPoint(g.Origin(c), g.TileWidth))
}

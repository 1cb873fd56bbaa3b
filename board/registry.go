package board

import "math"

// Registry canonicalizes grid coordinates into stable cell identities.
// Entries are never evicted except by Reset.
type Registry struct {
	cells map[Key]*Cell
}

func NewRegistry() *Registry {
	return &Registry{cells: make(map[Key]*Cell)}
}

// Canonicalize returns the unique *Cell for (x, y), creating it on first use.
func (r *Registry) Canonicalize(x, y int) *Cell {
	k := Key{X: x, Y: y}
	if c, ok := r.cells[k]; ok {
		return c
	}
	c := &Cell{x: x, y: y}
	r.cells[k] = c
	return c
}

// CanonicalizeKey is Canonicalize for a packed key.
func (r *Registry) CanonicalizeKey(k Key) *Cell {
	return r.Canonicalize(k.X, k.Y)
}

// CellForPoint floors the point onto the grid of the given tile width.
// Every conversion from continuous to discrete positions goes through here.
func (r *Registry) CellForPoint(p Point, tileWidth float64) *Cell {
	return r.Canonicalize(
		int(math.Floor(p.Lat/tileWidth)),
		int(math.Floor(p.Lng/tileWidth)),
	)
}

// Len reports how many cells have been canonicalized.
func (r *Registry) Len() int {
	return len(r.cells)
}

// Reset forgets every canonical cell. Cells handed out earlier stay valid
// values but no longer share identity with cells created afterwards.
func (r *Registry) Reset() {
	clear(r.cells)
}

package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Key packs a pair of grid indices into a comparable value usable as a map key.
type Key struct {
	X, Y int
}

// String renders the key as decimal "x,y", the form used at the persistence boundary.
func (k Key) String() string {
	return strconv.Itoa(k.X) + "," + strconv.Itoa(k.Y)
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Key{}, fmt.Errorf("cell key %q: missing separator", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Key{}, fmt.Errorf("cell key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Key{}, fmt.Errorf("cell key %q: %w", s, err)
	}
	return Key{X: x, Y: y}, nil
}

// Cell is one discrete unit of world space. Cells handed out by a Registry
// are canonical: equal coordinates always yield the same *Cell.
type Cell struct {
	x, y int
}

func (c *Cell) X() int   { return c.x }
func (c *Cell) Y() int   { return c.y }
func (c *Cell) Key() Key { return Key{X: c.x, Y: c.y} }

func (c *Cell) String() string {
	return c.Key().String()
}

// Point is a continuous world position (latitude, longitude in degrees).
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Package geocache holds the per-cell coin containers, their deterministic
// generation, and their textual snapshot ("momento") form.
package geocache

import (
	"strconv"

	"github.com/on-the-ground/geocoin/board"
)

// Coin is an indivisible unit of value. Cell is where the coin was first
// generated and never changes when the coin moves between holders.
type Coin struct {
	Cell   *board.Cell
	Serial int
}

// Equal compares coins by (home cell coordinates, serial).
func (c Coin) Equal(o Coin) bool {
	return c.Serial == o.Serial && c.Cell.Key() == o.Cell.Key()
}

func (c Coin) String() string {
	return strconv.Itoa(c.Cell.X()) + ":" + strconv.Itoa(c.Cell.Y()) + "#" + strconv.Itoa(c.Serial)
}

// Cache is the coin container occupying one cell. Coins behave as a stack:
// the last element is the most recently added and leaves first.
type Cache struct {
	Cell  *board.Cell
	Coins []Coin
}

func (c *Cache) Len() int {
	return len(c.Coins)
}

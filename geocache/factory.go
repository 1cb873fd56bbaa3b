package geocache

import (
	"math"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/luck"
)

// Sampler is the deterministic draw used to size fresh caches.
type Sampler interface {
	Sample(salt string, parts ...any) float64
}

// Factory builds fresh caches. Its output depends only on the cell,
// MaxCoins and the coin-count salt.
type Factory struct {
	Sampler  Sampler
	MaxCoins int
}

func NewFactory(sampler Sampler, maxCoins int) Factory {
	return Factory{Sampler: sampler, MaxCoins: maxCoins}
}

// CoinCount is floor(sample(x, y, coin-count salt) * MaxCoins).
func (f Factory) CoinCount(cell *board.Cell) int {
	if f.MaxCoins <= 0 {
		return 0
	}
	return int(math.Floor(f.sample(cell) * float64(f.MaxCoins)))
}

func (f Factory) sample(cell *board.Cell) float64 {
	if f.Sampler == nil {
		return luck.Sample(luck.CoinCountSalt, cell.X(), cell.Y())
	}
	return f.Sampler.Sample(luck.CoinCountSalt, cell.X(), cell.Y())
}

// Create generates the initial contents of the cache at cell: CoinCount
// coins with serials 0..n-1, all homed at cell.
func (f Factory) Create(cell *board.Cell) *Cache {
	n := f.CoinCount(cell)
	coins := make([]Coin, n)
	for i := range coins {
		coins[i] = Coin{Cell: cell, Serial: i}
	}
	return &Cache{Cell: cell, Coins: coins}
}

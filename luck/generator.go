package luck

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

// Generator memoizes Sample. Because Sample is pure, an entry dropped by
// the cache's admission policy only costs a recomputation; the memo never
// changes an answer.
//
// A nil *Generator is valid and samples without a memo.
type Generator struct {
	memo *ristretto.Cache[string, float64]
}

// NewGenerator builds a generator remembering roughly memoSize draws.
// A non-positive memoSize disables memoization.
func NewGenerator(memoSize int64) (*Generator, error) {
	if memoSize <= 0 {
		return &Generator{}, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, float64]{
		NumCounters: 10 * memoSize, // number of keys to track frequency of.
		MaxCost:     memoSize,      // one unit of cost per draw.
		BufferItems: 64,            // number of keys per Get buffer.
	})
	if err != nil {
		return nil, fmt.Errorf("luck memo: %w", err)
	}
	return &Generator{memo: cache}, nil
}

// Sample is the memoized form of the package-level Sample.
func (g *Generator) Sample(salt string, parts ...any) float64 {
	if g == nil || g.memo == nil {
		return Sample(salt, parts...)
	}
	key := seed(salt, parts)
	if v, ok := g.memo.Get(key); ok {
		return v
	}
	v := Sample(salt, parts...)
	g.memo.Set(key, v, 1)
	return v
}

// Close stops the memo's background goroutines.
func (g *Generator) Close() {
	if g == nil || g.memo == nil {
		return
	}
	g.memo.Close()
}

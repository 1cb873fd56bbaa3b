// Package ledger moves coins between a holder and a cache. Transfers never
// create or destroy coins; they only move the top of one stack onto another.
package ledger

import (
	"github.com/on-the-ground/geocoin/geocache"
)

// Transfer pops the last coin of source and pushes it onto destination.
// It reports false, changing nothing, when source is empty.
func Transfer(source, destination *[]geocache.Coin) bool {
	n := len(*source)
	if n == 0 {
		return false
	}
	coin := (*source)[n-1]
	*source = (*source)[:n-1]
	*destination = append(*destination, coin)
	return true
}

// Committer persists a mutated cache.
type Committer interface {
	Commit(c *geocache.Cache) error
}

// Ledger pairs transfers with an eager commit of the touched cache so a
// mutation is never held only in its visible form.
type Ledger struct {
	store Committer
}

func New(store Committer) Ledger {
	return Ledger{store: store}
}

// Collect moves the cache's newest coin into holdings.
func (l Ledger) Collect(cache *geocache.Cache, holdings *[]geocache.Coin) (bool, error) {
	return l.move(cache, &cache.Coins, holdings)
}

// Deposit moves the newest coin of holdings into the cache.
func (l Ledger) Deposit(cache *geocache.Cache, holdings *[]geocache.Coin) (bool, error) {
	return l.move(cache, holdings, &cache.Coins)
}

func (l Ledger) move(cache *geocache.Cache, source, destination *[]geocache.Coin) (bool, error) {
	if !Transfer(source, destination) {
		return false, nil
	}
	if err := l.store.Commit(cache); err != nil {
		return true, err
	}
	return true, nil
}

// Package store drives the lifecycle of caches between their three forms:
// unknown (never observed), known (a momento in the known table) and visible
// (a live *geocache.Cache materialized for the current scan).
//
// The known table is the only durable representation. Visible caches are a
// working copy that is folded back into the known table on every commit.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/shared/log"
)

// ErrNotFound is returned when a cell outside the current visible set is looked up.
var ErrNotFound = errors.New("cache not visible")

// Store owns the cell registry, the known table and the visible caches.
// It is not safe for concurrent use.
type Store struct {
	registry *board.Registry
	factory  geocache.Factory
	codec    geocache.Codec
	known    *knownTable
	visible  map[board.Key]*geocache.Cache
}

func New(reg *board.Registry, factory geocache.Factory) (*Store, error) {
	known, err := newKnownTable()
	if err != nil {
		return nil, err
	}
	return &Store{
		registry: reg,
		factory:  factory,
		codec:    geocache.NewCodec(reg),
		known:    known,
		visible:  make(map[board.Key]*geocache.Cache),
	}, nil
}

func (s *Store) Registry() *board.Registry { return s.registry }
func (s *Store) Codec() geocache.Codec     { return s.codec }
func (s *Store) MaxCoins() int             { return s.factory.MaxCoins }

// Materialize returns the visible cache for cell, making it visible first if
// needed. A cell seen for the first time is generated by the factory and its
// momento is written to the known table straight away; a known cell is
// decoded from its momento so earlier mutations survive. A momento that fails
// to decode is treated as unknown.
func (s *Store) Materialize(ctx context.Context, cell *board.Cell) (*geocache.Cache, error) {
	k := cell.Key()
	if c, ok := s.visible[k]; ok {
		return c, nil
	}

	momento, ok, err := s.known.Load(k)
	if err != nil {
		return nil, err
	}
	if ok {
		c, err := s.codec.Decode(momento, cell)
		if err == nil {
			s.visible[k] = c
			return c, nil
		}
		log.Effect(ctx, log.LogWarn, "discarding undecodable momento", map[string]interface{}{
			"cell": k.String(),
			"err":  err,
		})
	}

	c := s.factory.Create(cell)
	if err := s.Commit(c); err != nil {
		return nil, err
	}
	s.visible[k] = c
	return c, nil
}

// Commit re-encodes one cache into the known table. It is idempotent and
// should follow every mutation of a visible cache.
func (s *Store) Commit(c *geocache.Cache) error {
	momento, err := s.codec.Encode(c)
	if err != nil {
		return err
	}
	return s.known.Store(c.Cell.Key(), momento)
}

// CommitVisible checkpoints every visible cache into the known table.
// The visible set is left untouched.
func (s *Store) CommitVisible(ctx context.Context) error {
	if len(s.visible) == 0 {
		return nil
	}
	entries := make(map[board.Key]string, len(s.visible))
	for k, c := range s.visible {
		momento, err := s.codec.Encode(c)
		if err != nil {
			return err
		}
		entries[k] = momento
	}
	if err := s.known.StoreAll(entries); err != nil {
		return err
	}
	log.Effect(ctx, log.LogDebug, "committed visible caches", map[string]interface{}{
		"count": len(entries),
	})
	return nil
}

// ReleaseVisible commits and then forgets every visible cache. It must run
// before the next scan. On a failed commit the visible set is kept.
func (s *Store) ReleaseVisible(ctx context.Context) error {
	if err := s.CommitVisible(ctx); err != nil {
		return fmt.Errorf("release visible: %w", err)
	}
	clear(s.visible)
	return nil
}

// LookupVisible returns the cache materialized for cell in the current scan.
func (s *Store) LookupVisible(cell *board.Cell) (*geocache.Cache, error) {
	c, ok := s.visible[cell.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, cell)
	}
	return c, nil
}

func (s *Store) VisibleCount() int {
	return len(s.visible)
}

// Known returns the stored momento for cell, if any.
func (s *Store) Known(cell *board.Cell) (string, bool, error) {
	return s.known.Load(cell.Key())
}

func (s *Store) KnownCount() int {
	return s.known.Len()
}

// ResetAll drops every known and visible cache and every canonical cell.
// Afterwards each cell regenerates exactly as if it had never been seen.
func (s *Store) ResetAll(ctx context.Context) error {
	if err := s.known.Clear(); err != nil {
		return err
	}
	clear(s.visible)
	s.registry.Reset()
	log.Effect(ctx, log.LogInfo, "cache store reset", nil)
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/gateway"
	"github.com/on-the-ground/geocoin/shared/log"
)

// CachesKey is the gateway key holding the whole known table.
const CachesKey = "playerCaches"

// knownDump is the persisted form of the known table: parallel arrays of
// cell keys ("x,y") and momentos.
type knownDump struct {
	CacheKeys []string `json:"cacheKeys"`
	Caches    []string `json:"caches"`
}

// Save commits the visible caches and writes the known table under CachesKey.
func (s *Store) Save(ctx context.Context, gw gateway.Gateway) error {
	if err := s.CommitVisible(ctx); err != nil {
		return err
	}
	dump := knownDump{CacheKeys: []string{}, Caches: []string{}}
	if err := s.known.Range(func(k board.Key, momento string) bool {
		dump.CacheKeys = append(dump.CacheKeys, k.String())
		dump.Caches = append(dump.Caches, momento)
		return true
	}); err != nil {
		return err
	}
	b, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("encode known caches: %w", err)
	}
	return gw.Set(ctx, CachesKey, string(b))
}

// LoadKnown replaces the known table with the one stored under CachesKey and
// drops any visible caches. An unreadable or malformed table is logged and
// leaves the store empty, as on a first run; unparseable cell keys are skipped.
func (s *Store) LoadKnown(ctx context.Context, gw gateway.Gateway) error {
	clear(s.visible)
	if err := s.known.Clear(); err != nil {
		return err
	}

	raw, ok, err := gw.Get(ctx, CachesKey)
	if err != nil {
		log.Effect(ctx, log.LogError, "failed to load known caches, starting empty", map[string]interface{}{
			"err": err,
		})
		return nil
	}
	if !ok {
		return nil
	}

	var dump knownDump
	if err := json.Unmarshal([]byte(raw), &dump); err != nil {
		log.Effect(ctx, log.LogError, "malformed known cache table, starting empty", map[string]interface{}{
			"err": err,
		})
		return nil
	}
	n := len(dump.CacheKeys)
	if len(dump.Caches) != n {
		log.Effect(ctx, log.LogWarn, "known cache table arrays differ in length", map[string]interface{}{
			"keys":   len(dump.CacheKeys),
			"caches": len(dump.Caches),
		})
		n = min(n, len(dump.Caches))
	}

	entries := make(map[board.Key]string, n)
	for i := 0; i < n; i++ {
		k, err := board.ParseKey(dump.CacheKeys[i])
		if err != nil {
			log.Effect(ctx, log.LogWarn, "skipping known cache with bad key", map[string]interface{}{
				"key": dump.CacheKeys[i],
				"err": err,
			})
			continue
		}
		entries[k] = dump.Caches[i]
	}
	if err := s.known.StoreAll(entries); err != nil {
		return err
	}
	log.Effect(ctx, log.LogInfo, "loaded known caches", map[string]interface{}{
		"count": len(entries),
	})
	return nil
}

// Package player holds the player's position and coin holdings and their
// persisted form.
package player

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/gateway"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/shared/log"
)

const (
	CoinsKey    = "playerCoins"
	PositionKey = "currentPosition"
)

// Player's Coins is a stack like a cache's: the last coin is the newest.
type Player struct {
	Position board.Point
	Coins    []geocache.Coin
}

func New(position board.Point) *Player {
	return &Player{Position: position}
}

// Reset returns the player to position with empty holdings.
func (p *Player) Reset(position board.Point) {
	p.Position = position
	p.Coins = nil
}

// Save writes holdings and position. Both keys are attempted; the first
// failure is returned.
func (p *Player) Save(ctx context.Context, gw gateway.Gateway, codec geocache.Codec) error {
	coins, err := codec.EncodeCoins(p.Coins)
	if err != nil {
		return err
	}
	pos, err := json.Marshal(p.Position)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	errCoins := gw.Set(ctx, CoinsKey, coins)
	errPos := gw.Set(ctx, PositionKey, string(pos))
	if errCoins != nil {
		return errCoins
	}
	return errPos
}

// Load reads the player back. Missing or unreadable values fall back to
// fallback for the position and to empty holdings, and are logged.
func Load(ctx context.Context, gw gateway.Gateway, codec geocache.Codec, fallback board.Point) *Player {
	p := New(fallback)

	if raw, ok := get(ctx, gw, PositionKey); ok {
		var pos board.Point
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			log.Effect(ctx, log.LogWarn, "malformed saved position, using default", map[string]interface{}{
				"err": err,
			})
		} else {
			p.Position = pos
		}
	}

	if raw, ok := get(ctx, gw, CoinsKey); ok {
		coins, err := codec.DecodeCoins(raw)
		if err != nil {
			log.Effect(ctx, log.LogWarn, "malformed saved holdings, starting empty", map[string]interface{}{
				"err": err,
			})
		} else {
			p.Coins = coins
		}
	}
	return p
}

func get(ctx context.Context, gw gateway.Gateway, key string) (string, bool) {
	raw, ok, err := gw.Get(ctx, key)
	if err != nil {
		log.Effect(ctx, log.LogError, "failed to load player state", map[string]interface{}{
			"key": key,
			"err": err,
		})
		return "", false
	}
	return raw, ok
}

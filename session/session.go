// Package session is the application context of one player: it owns the
// cache store, the player's holdings and position, and the persistence
// gateway, and exposes the operations a renderer drives.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/config"
	"github.com/on-the-ground/geocoin/gateway"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/ledger"
	"github.com/on-the-ground/geocoin/luck"
	"github.com/on-the-ground/geocoin/player"
	"github.com/on-the-ground/geocoin/scan"
	"github.com/on-the-ground/geocoin/shared/log"
	"github.com/on-the-ground/geocoin/store"
)

// Session is not safe for concurrent use; one actor drives it at a time.
type Session struct {
	id       string
	cfg      config.Config
	gw       gateway.Gateway
	gen      *luck.Generator
	store    *store.Store
	ledger   ledger.Ledger
	player   *player.Player
	geometry board.Geometry
	visible  []*board.Cell

	sink   chan Event
	closed bool
}

func New(cfg config.Config, gw gateway.Gateway) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, err := luck.NewGenerator(cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	st, err := store.New(board.NewRegistry(), geocache.NewFactory(gen, cfg.MaxCoins))
	if err != nil {
		gen.Close()
		return nil, err
	}
	return &Session{
		id:       uuid.New().String(),
		cfg:      cfg,
		gw:       gw,
		gen:      gen,
		store:    st,
		ledger:   ledger.New(st),
		player:   player.New(cfg.Origin()),
		geometry: board.Geometry{TileWidth: cfg.TileDegrees},
		sink:     make(chan Event, cfg.EventBuffer),
	}, nil
}

func (s *Session) ID() string { return s.id }

// Source delivers session events. Events are dropped while the buffer is full.
func (s *Session) Source() <-chan Event { return s.sink }

// Close releases the generator memo and closes Source.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.gen.Close()
	close(s.sink)
}

// Load restores the known caches and the player from the gateway and scans
// around the restored position. Unreadable state is logged and replaced by
// a first-run state.
func (s *Session) Load(ctx context.Context) error {
	if err := s.store.LoadKnown(ctx, s.gw); err != nil {
		return err
	}
	s.player = player.Load(ctx, s.gw, s.store.Codec(), s.cfg.Origin())
	log.Effect(ctx, log.LogInfo, "session loaded", s.fields(map[string]interface{}{
		"known":    s.store.KnownCount(),
		"holdings": len(s.player.Coins),
	}))
	return s.Refresh(ctx)
}

// Save commits every visible cache and writes the known table and the player.
// A failure is logged and returned; the session stays usable.
func (s *Session) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.gw); err != nil {
		log.Effect(ctx, log.LogError, "failed to save caches", s.fields(map[string]interface{}{"err": err}))
		return fmt.Errorf("save caches: %w", err)
	}
	if err := s.player.Save(ctx, s.gw, s.store.Codec()); err != nil {
		log.Effect(ctx, log.LogError, "failed to save player", s.fields(map[string]interface{}{"err": err}))
		return fmt.Errorf("save player: %w", err)
	}
	log.Effect(ctx, log.LogInfo, "session saved", s.fields(map[string]interface{}{
		"known": s.store.KnownCount(),
	}))
	s.emit(ctx, EventSaved, nil)
	return nil
}

// Refresh releases the current visible set and scans around the player.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.store.ReleaseVisible(ctx); err != nil {
		return err
	}
	s.visible = nil
	cells, err := scan.Scan(ctx, s.store, s.player.Position, scan.Params{
		TileWidth:        s.cfg.TileDegrees,
		Radius:           s.cfg.VisibilityRadius,
		SpawnProbability: s.cfg.SpawnProbability,
		Sampler:          s.gen,
	})
	if err != nil {
		return err
	}
	s.visible = cells
	s.emit(ctx, EventScanComplete, nil)
	return nil
}

// Move shifts the player by the given offsets in degrees and rescans.
func (s *Session) Move(ctx context.Context, dLat, dLng float64) error {
	s.player.Position = board.Point{
		Lat: s.player.Position.Lat + dLat,
		Lng: s.player.Position.Lng + dLng,
	}
	return s.Refresh(ctx)
}

// MoveTo places the player at p, rescanning only when the player's cell
// changes. It reports whether a rescan happened.
func (s *Session) MoveTo(ctx context.Context, p board.Point) (bool, error) {
	before := s.PlayerCell()
	s.player.Position = p
	if s.PlayerCell() == before {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

func (s *Session) Position() board.Point { return s.player.Position }

func (s *Session) PlayerCell() *board.Cell {
	return s.store.Registry().CellForPoint(s.player.Position, s.cfg.TileDegrees)
}

// Visible lists the cells hosting a cache around the player, in scan order.
func (s *Session) Visible() []*board.Cell {
	return append([]*board.Cell(nil), s.visible...)
}

// Cache returns the visible cache at cell, or store.ErrNotFound.
func (s *Session) Cache(cell *board.Cell) (*geocache.Cache, error) {
	return s.store.LookupVisible(cell)
}

// CacheAt is Cache addressed by grid indices.
func (s *Session) CacheAt(x, y int) (*geocache.Cache, error) {
	return s.Cache(s.store.Registry().Canonicalize(x, y))
}

// Holdings returns a copy of the player's coins, newest last.
func (s *Session) Holdings() []geocache.Coin {
	return append([]geocache.Coin(nil), s.player.Coins...)
}

// Collect moves the newest coin of the visible cache at cell to the player.
func (s *Session) Collect(ctx context.Context, cell *board.Cell) (bool, error) {
	return s.transfer(ctx, cell, s.ledger.Collect)
}

// Deposit moves the player's newest coin into the visible cache at cell.
func (s *Session) Deposit(ctx context.Context, cell *board.Cell) (bool, error) {
	return s.transfer(ctx, cell, s.ledger.Deposit)
}

func (s *Session) transfer(
	ctx context.Context,
	cell *board.Cell,
	move func(*geocache.Cache, *[]geocache.Coin) (bool, error),
) (bool, error) {
	cache, err := s.store.LookupVisible(cell)
	if err != nil {
		return false, err
	}
	moved, err := move(cache, &s.player.Coins)
	if err != nil {
		log.Effect(ctx, log.LogError, "failed to commit cache after transfer", s.fields(map[string]interface{}{
			"cell": cell.String(),
			"err":  err,
		}))
		return moved, err
	}
	if moved {
		s.emit(ctx, EventCacheMutated, cell)
		s.emit(ctx, EventHoldingsChanged, nil)
	}
	return moved, nil
}

// LocateHome returns the point of the cell where coin was first generated.
func (s *Session) LocateHome(coin geocache.Coin) board.Point {
	return s.geometry.Origin(coin.Cell)
}

// Bounds is the rectangle a renderer draws for cell.
func (s *Session) Bounds(cell *board.Cell) board.Bounds {
	return s.geometry.Bounds(cell)
}

// Reset wipes all progress: the player returns to the origin with no coins,
// every cache is forgotten, and the emptied state is persisted.
func (s *Session) Reset(ctx context.Context) error {
	s.player.Reset(s.cfg.Origin())
	s.visible = nil
	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.emit(ctx, EventReset, nil)
	return s.Save(ctx)
}

func (s *Session) emit(ctx context.Context, kind EventKind, cell *board.Cell) {
	if s.closed {
		return
	}
	select {
	case s.sink <- Event{Kind: kind, Cell: cell, SessionID: s.id, TimeSpan: Now()}:
	default:
		log.Effect(ctx, log.LogDebug, "event dropped", s.fields(map[string]interface{}{
			"kind": string(kind),
		}))
	}
}

func (s *Session) fields(extra map[string]interface{}) map[string]interface{} {
	extra["session_id"] = s.id
	return extra
}

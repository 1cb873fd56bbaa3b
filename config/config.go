// Package config loads game settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/on-the-ground/geocoin/board"
)

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

const (
	StorageMemDB  = "memdb"
	StorageSQLite = "sqlite"
)

// Config describes one game world and where it is persisted.
type Config struct {
	TileDegrees      float64 `env:"GEOCOIN_TILE_DEGREES"      envDefault:"1e-4"`
	VisibilityRadius int     `env:"GEOCOIN_VISIBILITY_RADIUS" envDefault:"8"`
	SpawnProbability float64 `env:"GEOCOIN_SPAWN_PROBABILITY" envDefault:"0.1"`
	MaxCoins         int     `env:"GEOCOIN_MAX_COINS"         envDefault:"100"`
	OriginLat        float64 `env:"GEOCOIN_ORIGIN_LAT"        envDefault:"36.98949379578401"`
	OriginLng        float64 `env:"GEOCOIN_ORIGIN_LNG"        envDefault:"-122.06277128548504"`
	Storage          string  `env:"GEOCOIN_STORAGE"           envDefault:"memdb"`
	SQLitePath       string  `env:"GEOCOIN_SQLITE_PATH"       envDefault:"geocoin.db"`
	LogLevel         string  `env:"GEOCOIN_LOG_LEVEL"         envDefault:"info"`
	EventBuffer      int     `env:"GEOCOIN_EVENT_BUFFER"      envDefault:"64"`
	MemoSize         int64   `env:"GEOCOIN_MEMO_SIZE"         envDefault:"4096"`
}

// Load parses the environment into a validated Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		TileDegrees:      1e-4,
		VisibilityRadius: 8,
		SpawnProbability: 0.1,
		MaxCoins:         100,
		OriginLat:        36.98949379578401,
		OriginLng:        -122.06277128548504,
		Storage:          StorageMemDB,
		SQLitePath:       "geocoin.db",
		LogLevel:         "info",
		EventBuffer:      64,
		MemoSize:         4096,
	}
}

func (c Config) Origin() board.Point {
	return board.Point{Lat: c.OriginLat, Lng: c.OriginLng}
}

func (c Config) Validate() error {
	switch {
	case c.TileDegrees <= 0:
		return fmt.Errorf("%w: tile degrees must be positive, got %v", ErrInvalid, c.TileDegrees)
	case c.VisibilityRadius < 0:
		return fmt.Errorf("%w: visibility radius must not be negative, got %d", ErrInvalid, c.VisibilityRadius)
	case c.SpawnProbability < 0 || c.SpawnProbability > 1:
		return fmt.Errorf("%w: spawn probability must be within [0,1], got %v", ErrInvalid, c.SpawnProbability)
	case c.MaxCoins < 0:
		return fmt.Errorf("%w: max coins must not be negative, got %d", ErrInvalid, c.MaxCoins)
	case c.EventBuffer < 0:
		return fmt.Errorf("%w: event buffer must not be negative, got %d", ErrInvalid, c.EventBuffer)
	case c.Storage != StorageMemDB && c.Storage != StorageSQLite:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalid, c.Storage)
	case c.Storage == StorageSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite storage needs a path", ErrInvalid)
	}
	return nil
}

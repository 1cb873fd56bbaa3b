package geocache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/on-the-ground/geocoin/board"
)

// ErrDecode reports a snapshot that cannot be turned back into coins.
var ErrDecode = errors.New("malformed momento")

type cellRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type coinRecord struct {
	Cell   *cellRecord `json:"cell"`
	Serial *int        `json:"serial"`
}

type momento struct {
	Coins *[]coinRecord `json:"coins"`
}

// Codec converts caches to and from their momento text. Decoded coins are
// re-canonicalized through Registry so they share identity with live cells.
type Codec struct {
	Registry *board.Registry
}

func NewCodec(reg *board.Registry) Codec {
	return Codec{Registry: reg}
}

// Encode renders {"coins":[{"cell":{"x":..,"y":..},"serial":..},...]} in stack order.
func (Codec) Encode(c *Cache) (string, error) {
	records := toRecords(c.Coins)
	b, err := json.Marshal(momento{Coins: &records})
	if err != nil {
		return "", fmt.Errorf("encode momento for %v: %w", c.Cell, err)
	}
	return string(b), nil
}

// Decode rebuilds the cache at owner from a momento. Coins keep the home
// cell recorded in the snapshot, which may differ from owner after a deposit.
func (cd Codec) Decode(snapshot string, owner *board.Cell) (*Cache, error) {
	var m momento
	if err := strictUnmarshal(snapshot, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if m.Coins == nil {
		return nil, fmt.Errorf("%w: missing coins", ErrDecode)
	}
	coins, err := cd.fromRecords(*m.Coins)
	if err != nil {
		return nil, err
	}
	return &Cache{Cell: owner, Coins: coins}, nil
}

// EncodeCoins renders a bare coin list (used for player holdings).
func (Codec) EncodeCoins(coins []Coin) (string, error) {
	b, err := json.Marshal(toRecords(coins))
	if err != nil {
		return "", fmt.Errorf("encode coins: %w", err)
	}
	return string(b), nil
}

// DecodeCoins is the inverse of EncodeCoins.
func (cd Codec) DecodeCoins(text string) ([]Coin, error) {
	var records []coinRecord
	if err := strictUnmarshal(text, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cd.fromRecords(records)
}

func toRecords(coins []Coin) []coinRecord {
	records := make([]coinRecord, len(coins))
	for i, c := range coins {
		serial := c.Serial
		records[i] = coinRecord{
			Cell:   &cellRecord{X: c.Cell.X(), Y: c.Cell.Y()},
			Serial: &serial,
		}
	}
	return records
}

func (cd Codec) fromRecords(records []coinRecord) ([]Coin, error) {
	coins := make([]Coin, 0, len(records))
	for i, r := range records {
		if r.Cell == nil || r.Serial == nil {
			return nil, fmt.Errorf("%w: coin %d is incomplete", ErrDecode, i)
		}
		coins = append(coins, Coin{
			Cell:   cd.Registry.Canonicalize(r.Cell.X, r.Cell.Y),
			Serial: *r.Serial,
		})
	}
	return coins, nil
}

func strictUnmarshal(text string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

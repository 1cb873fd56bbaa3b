package session

import (
	"time"

	"github.com/on-the-ground/geocoin/board"
	"github.com/rickb777/date/v2/timespan"
)

type EventKind string

const (
	EventScanComplete    EventKind = "scan_complete"
	EventCacheMutated    EventKind = "cache_mutated"
	EventHoldingsChanged EventKind = "holdings_changed"
	EventReset           EventKind = "reset"
	EventSaved           EventKind = "saved"
)

type TimeSpan = timespan.TimeSpan

const epsilon = time.Millisecond

// Now is a short span around the current instant.
func Now() TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-1*epsilon), now.Add(epsilon))
}

// Event tells a renderer that something it draws has changed.
// Cell is set for cache-specific events only.
type Event struct {
	Kind      EventKind
	Cell      *board.Cell
	SessionID string
	TimeSpan
}

// Package luck provides the deterministic pseudo-random draws behind cache
// placement and cache contents.
//
// A draw is a pure function of its inputs: the parts and the salt are joined
// into one string, hashed with xxhash, and the top 53 bits of the hash are
// scaled into [0,1). Nothing else (clock, call order, process) feeds into it,
// so the same world is regenerated identically across restarts.
package luck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// SpawnSalt salts the "does this cell host a cache" draw.
	SpawnSalt = "spawn"
	// CoinCountSalt salts the "how many coins does a fresh cache hold" draw.
	// It differs from SpawnSalt so presence and size are uncorrelated.
	CoinCountSalt = "initialValue"
)

const unit = 1 << 53

// Sample returns a value in [0,1) determined only by parts and salt.
func Sample(salt string, parts ...any) float64 {
	return fromHash(xxhash.Sum64String(seed(salt, parts)))
}

func fromHash(h uint64) float64 {
	return float64(h>>11) / unit
}

// seed joins parts and salt the way "[x, y, salt].toString()" would:
// comma separated, salt last.
func seed(salt string, parts []any) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(format(p))
		sb.WriteByte(',')
	}
	sb.WriteString(salt)
	return sb.String()
}

func format(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/on-the-ground/geocoin/board"
	"github.com/on-the-ground/geocoin/config"
	"github.com/on-the-ground/geocoin/gateway"
	"github.com/on-the-ground/geocoin/geocache"
	"github.com/on-the-ground/geocoin/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*session.Session, *board.Cell) {
	t.Helper()
	reg := board.NewRegistry()
	f := geocache.NewFactory(nil, 5)
	x := 3
	for f.CoinCount(reg.Canonicalize(x, 4)) < 1 {
		x++
	}
	cfg := config.Default()
	cfg.TileDegrees = 1
	cfg.VisibilityRadius = 0
	cfg.SpawnProbability = 1
	cfg.MaxCoins = 5
	cfg.OriginLat = float64(x) + 0.5
	cfg.OriginLng = 4.5

	gw, err := gateway.NewMemDB()
	require.NoError(t, err)
	sess, err := session.New(cfg, gw)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	require.NoError(t, sess.Load(context.Background()))
	return sess, reg.Canonicalize(x, 4)
}

func TestConsole_Run(t *testing.T) {
	sess, cell := newTestSession(t)
	var out bytes.Buffer
	script := strings.Join([]string{
		"inv",
		fmt.Sprintf("collect %d %d", cell.X(), cell.Y()),
		"inv",
		"home 0",
		"home 7",
		"collect 999 999",
		"collect a b",
		"save",
		"quit",
		"look",
	}, "\n")

	newConsole(sess, 1, &out).run(context.Background(), strings.NewReader(script))

	got := out.String()
	assert.Contains(t, got, "no coins")
	assert.Contains(t, got, fmt.Sprintf("cache %v now holds", cell))
	assert.Contains(t, got, fmt.Sprintf("was minted at %.6f,%.6f", float64(cell.X()), float64(cell.Y())))
	assert.Contains(t, got, "error: no coin 7, you hold 1")
	assert.Contains(t, got, "error: no cache in sight at 999,999")
	assert.Contains(t, got, "error: usage")
	assert.Contains(t, got, "saved")
	assert.Len(t, sess.Holdings(), 1)
	assert.Equal(t, 1, strings.Count(got, "in cell"), "commands after quit must not run")
}

func TestConsole_Move(t *testing.T) {
	sess, cell := newTestSession(t)
	c := newConsole(sess, 1, &bytes.Buffer{})
	ctx := context.Background()

	for _, cmd := range []string{"n", "e", "s", "w"} {
		quit, err := c.exec(ctx, []string{cmd})
		require.NoError(t, err)
		assert.False(t, quit)
	}
	assert.Equal(t, cell.Key(), sess.PlayerCell().Key())

	_, err := c.exec(ctx, []string{"n"})
	require.NoError(t, err)
	assert.Equal(t, board.Key{X: cell.X() + 1, Y: cell.Y()}, sess.PlayerCell().Key())
}

func TestTwoInts(t *testing.T) {
	x, y, err := twoInts([]string{"-3", "12"})
	require.NoError(t, err)
	assert.Equal(t, -3, x)
	assert.Equal(t, 12, y)

	for _, args := range [][]string{nil, {"1"}, {"1", "2", "3"}, {"x", "2"}} {
		_, _, err := twoInts(args)
		assert.ErrorIs(t, err, errUsage, "%v", args)
	}
}

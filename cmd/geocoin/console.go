package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/on-the-ground/geocoin/session"
	"github.com/on-the-ground/geocoin/shared/log"
	"github.com/on-the-ground/geocoin/store"
)

var errUsage = errors.New("usage")

const help = `commands:
  n | s | e | w        move one cell
  collect X Y          take the newest coin from the cache at X,Y
  deposit X Y          drop your newest coin into the cache at X,Y
  look                 list visible caches
  inv                  list your coins
  home N               show where your N-th coin was minted
  save                 persist progress
  reset                forget everything and start over
  quit`

// console is a line-oriented renderer over a session.
type console struct {
	sess *session.Session
	step float64
	out  io.Writer
}

func newConsole(sess *session.Session, step float64, out io.Writer) *console {
	return &console{sess: sess, step: step, out: out}
}

func (c *console) run(ctx context.Context, in io.Reader) {
	c.look()
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			return
		}
		quit, err := c.exec(ctx, strings.Fields(sc.Text()))
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		c.drain(ctx)
		if quit {
			return
		}
	}
}

func (c *console) exec(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "n":
		return false, c.move(ctx, c.step, 0)
	case "s":
		return false, c.move(ctx, -c.step, 0)
	case "e":
		return false, c.move(ctx, 0, c.step)
	case "w":
		return false, c.move(ctx, 0, -c.step)
	case "collect", "deposit":
		x, y, err := twoInts(args[1:])
		if err != nil {
			return false, err
		}
		return false, c.transfer(ctx, args[0], x, y)
	case "look":
		c.look()
	case "inv":
		c.inventory()
	case "home":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: home N", errUsage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("%w: home N", errUsage)
		}
		return false, c.home(n)
	case "save":
		if err := c.sess.Save(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, "saved")
	case "reset":
		if err := c.sess.Reset(ctx); err != nil {
			return false, err
		}
		c.look()
	case "quit", "q":
		return true, nil
	default:
		fmt.Fprintln(c.out, help)
	}
	return false, nil
}

func (c *console) move(ctx context.Context, dLat, dLng float64) error {
	if err := c.sess.Move(ctx, dLat, dLng); err != nil {
		return err
	}
	c.look()
	return nil
}

func (c *console) transfer(ctx context.Context, verb string, x, y int) error {
	cache, err := c.sess.CacheAt(x, y)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no cache in sight at %d,%d", x, y)
	}
	if err != nil {
		return err
	}
	op := c.sess.Collect
	if verb == "deposit" {
		op = c.sess.Deposit
	}
	moved, err := op(ctx, cache.Cell)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Fprintln(c.out, "nothing to move")
		return nil
	}
	fmt.Fprintf(c.out, "cache %v now holds %d coins, you hold %d\n", cache.Cell, cache.Len(), len(c.sess.Holdings()))
	return nil
}

func (c *console) look() {
	p := c.sess.Position()
	fmt.Fprintf(c.out, "at %.6f,%.6f in cell %v\n", p.Lat, p.Lng, c.sess.PlayerCell())
	for _, cell := range c.sess.Visible() {
		cache, err := c.sess.Cache(cell)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.out, "  cache %v: %d coins\n", cell, cache.Len())
	}
}

func (c *console) inventory() {
	coins := c.sess.Holdings()
	if len(coins) == 0 {
		fmt.Fprintln(c.out, "no coins")
		return
	}
	for i, coin := range coins {
		fmt.Fprintf(c.out, "  %d: %v\n", i, coin)
	}
}

func (c *console) home(n int) error {
	coins := c.sess.Holdings()
	if n < 0 || n >= len(coins) {
		return fmt.Errorf("no coin %d, you hold %d", n, len(coins))
	}
	p := c.sess.LocateHome(coins[n])
	fmt.Fprintf(c.out, "%v was minted at %.6f,%.6f\n", coins[n], p.Lat, p.Lng)
	return nil
}

// drain logs whatever the session reported during the last command.
func (c *console) drain(ctx context.Context) {
	for {
		select {
		case e, ok := <-c.sess.Source():
			if !ok {
				return
			}
			fields := map[string]interface{}{
				"event_type": string(e.Kind),
				"timestamp":  e.Start(),
			}
			if e.Cell != nil {
				fields["cell"] = e.Cell.String()
			}
			log.Effect(ctx, log.LogDebug, "session event", fields)
		default:
			return
		}
	}
}

func twoInts(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: expected X Y", errUsage)
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if err := errors.Join(errX, errY); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errUsage, err)
	}
	return x, y, nil
}

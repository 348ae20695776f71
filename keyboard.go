package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/mrdg/squeezebox/keys"
	"golang.org/x/term"
)

type keyPlayer interface {
	Press(key string) keys.Action
	Release(key string)
	Reset()
}

// runKeys plays the instrument from the terminal until the quit key is
// pressed or ctx is done. Terminals only report key presses, and a held key
// keeps repeating, so a key counts as released once it hasn't repeated for
// the hold duration.
func runKeys(ctx context.Context, player keyPlayer, hold time.Duration) error {
	if hold <= 0 {
		return fmt.Errorf("keys: hold must be positive: %v", hold)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("keys: stdin is not a terminal, try -input console")
	}
	events, err := keyboard.GetKeys(16)
	if err != nil {
		return err
	}
	defer keyboard.Close()
	defer player.Reset()

	r := newReleaser(player, hold)
	ticker := time.NewTicker(hold / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.expire(now)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return ev.Err
			}
			key := keyName(ev)
			if key == "" {
				continue
			}
			if r.press(key, time.Now()) == keys.ActionQuit {
				return nil
			}
		}
	}
}

func keyName(ev keyboard.KeyEvent) string {
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return keys.KeyQuit
	case keyboard.KeyTab:
		return keys.KeySustain
	case keyboard.KeyEnter:
		return "enter"
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return "backspace"
	case keyboard.KeySpace:
		return "space"
	case 0:
		if ev.Rune != 0 {
			return strings.ToLower(string(ev.Rune))
		}
	}
	return ""
}

// releaser turns a stream of key repeats into press and release events.
type releaser struct {
	player keyPlayer
	hold   time.Duration
	seen   map[string]time.Time
}

func newReleaser(player keyPlayer, hold time.Duration) *releaser {
	return &releaser{
		player: player,
		hold:   hold,
		seen:   make(map[string]time.Time),
	}
}

func (r *releaser) press(key string, now time.Time) keys.Action {
	_, down := r.seen[key]
	r.seen[key] = now
	if down {
		return keys.ActionNone
	}
	return r.player.Press(key)
}

func (r *releaser) expire(now time.Time) {
	for key, last := range r.seen {
		if now.Sub(last) >= r.hold {
			delete(r.seen, key)
			r.player.Release(key)
		}
	}
}

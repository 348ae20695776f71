package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/squeezebox/audio"
	"github.com/mrdg/squeezebox/dub"
	"github.com/mrdg/squeezebox/keys"
)

var errQuit = errors.New("quit")

// synth is the part of the engine the console reads and sets directly.
type synth interface {
	SetPressure(p float64)
	Active() []float64
	Volume() float64
}

// device is anything with tunable properties, e.g. the bellows tracker.
type device interface {
	Set(key string, value interface{}) error
	Get(key string) (interface{}, error)
	Keys() []string
	LoadPreset(name string) error
	Presets() []string
}

type env struct {
	synth   synth
	notes   *keys.Counter
	keys    *keys.Mapper
	devices map[string]device
}

func (e *env) device(name string) (device, error) {
	dev, ok := e.devices[name]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", name)
	}
	return dev, nil
}

func (e *env) eval(input string) (interface{}, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return nil, fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return nil, fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err == errQuit {
			return nil, err
		}
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

// runScript evaluates start-up commands in order. It stops at the first
// failing command, and returns errQuit as is.
func runScript(env *env, lines []string) error {
	for n, line := range lines {
		if _, err := env.eval(line); err == errQuit {
			return err
		} else if err != nil {
			return fmt.Errorf("line %d: %w", n+1, err)
		}
	}
	return nil
}

func repl(ctx context.Context, env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			env.notes.ReleaseAll()
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := env.eval(line)
		switch {
		case err == errQuit:
			env.notes.ReleaseAll()
			return nil
		case err != nil:
			fmt.Println(err)
		case result != nil:
			fmt.Println(result)
		}
	}
}

var _ synth = (*audio.Engine)(nil)

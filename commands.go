package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/squeezebox/dub"
	"github.com/mrdg/squeezebox/keys"
)

type command struct {
	name  string
	run   func(*env, []dub.Node) (interface{}, error)
	arity int // -n means len(args) must be >= n
}

var commands = []command{
	{"on", onCommand, -1},
	{"off", offCommand, -1},
	{"press", pressCommand, -1},
	{"release", releaseCommand, -1},
	{"pressure", pressureCommand, 1},
	{"notes", notesCommand, 0},
	{"volume", volumeCommand, 0},
	{"set", setCommand, 3},
	{"get", getCommand, 2},
	{"preset", presetCommand, -1},
	{"quit", quitCommand, 0},
}

// onCommand starts notes given in Hz as floats or as MIDI notes. Both go
// through the note counter, so 440.0 and 69 hold the same pitch.
func onCommand(env *env, args []dub.Node) (interface{}, error) {
	return nil, eachNote(args, env.notes.HoldHz, env.notes.Hold)
}

func offCommand(env *env, args []dub.Node) (interface{}, error) {
	return nil, eachNote(args, env.notes.ReleaseHz, env.notes.Release)
}

// eachNote checks every argument before playing any of them.
func eachNote(args []dub.Node, hz func(...float64), midi func(...int)) error {
	var (
		freqs []float64
		notes []int
	)
	for _, arg := range args {
		if f, ok := arg.(dub.Float); ok {
			freqs = append(freqs, float64(f))
			continue
		}
		n, err := dub.Notes(arg)
		if err != nil {
			return err
		}
		notes = append(notes, n...)
	}
	if len(freqs) > 0 {
		hz(freqs...)
	}
	if len(notes) > 0 {
		midi(notes...)
	}
	return nil
}

func pressCommand(env *env, args []dub.Node) (interface{}, error) {
	names, err := keyNames(args)
	if err != nil {
		return nil, err
	}
	for _, key := range names {
		if env.keys.Press(key) == keys.ActionQuit {
			return nil, errQuit
		}
	}
	return nil, nil
}

func releaseCommand(env *env, args []dub.Node) (interface{}, error) {
	names, err := keyNames(args)
	if err != nil {
		return nil, err
	}
	for _, key := range names {
		env.keys.Release(key)
	}
	return nil, nil
}

func keyNames(args []dub.Node) ([]string, error) {
	var names []string
	for _, arg := range args {
		switch v := arg.(type) {
		case dub.Identifier:
			names = append(names, string(v))
		case dub.String:
			names = append(names, string(v))
		case dub.Int:
			names = append(names, fmt.Sprint(int(v)))
		default:
			return nil, fmt.Errorf("not a key: %v", v)
		}
	}
	return names, nil
}

func pressureCommand(env *env, args []dub.Node) (interface{}, error) {
	var p float64
	if err := readArgs(args, &p); err != nil {
		return nil, err
	}
	env.synth.SetPressure(p)
	return fmt.Sprintf("volume %.3f", env.synth.Volume()), nil
}

func notesCommand(env *env, args []dub.Node) (interface{}, error) {
	active := env.synth.Active()
	if len(active) == 0 {
		return "no notes", nil
	}
	freqs := make([]string, len(active))
	for i, f := range active {
		freqs[i] = fmt.Sprintf("%.3f", f)
	}
	return strings.Join(freqs, " ") + " Hz", nil
}

func volumeCommand(env *env, args []dub.Node) (interface{}, error) {
	return fmt.Sprintf("%.3f", env.synth.Volume()), nil
}

func setCommand(env *env, args []dub.Node) (interface{}, error) {
	var name, prop string
	if err := readArgs(args[:2], &name, &prop); err != nil {
		return nil, err
	}
	dev, err := env.device(name)
	if err != nil {
		return nil, err
	}
	switch v := args[2].(type) {
	case dub.Float:
		return nil, dev.Set(prop, float64(v))
	case dub.Int:
		return nil, dev.Set(prop, int(v))
	case dub.String:
		return nil, dev.Set(prop, string(v))
	case dub.Identifier:
		return nil, dev.Set(prop, string(v))
	default:
		return nil, fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) (interface{}, error) {
	var name, prop string
	if err := readArgs(args, &name, &prop); err != nil {
		return nil, err
	}
	dev, err := env.device(name)
	if err != nil {
		return nil, err
	}
	return dev.Get(prop)
}

// presetCommand loads a preset, or lists presets and properties when only
// the device is given.
func presetCommand(env *env, args []dub.Node) (interface{}, error) {
	var name, preset string
	if len(args) == 1 {
		if err := readArgs(args, &name); err != nil {
			return nil, err
		}
		dev, err := env.device(name)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("presets: %s\nproperties: %s",
			strings.Join(dev.Presets(), " "), strings.Join(dev.Keys(), " ")), nil
	}
	if err := readArgs(args, &name, &preset); err != nil {
		return nil, err
	}
	dev, err := env.device(name)
	if err != nil {
		return nil, err
	}
	return nil, dev.LoadPreset(preset)
}

func quitCommand(env *env, args []dub.Node) (interface{}, error) {
	return nil, errQuit
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch f := arg.(type) {
			case dub.Float:
				*p = float64(f)
			case dub.Int:
				*p = float64(f)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mrdg/squeezebox/audio"
	"github.com/mrdg/squeezebox/bellows"
	"github.com/mrdg/squeezebox/keys"
)

func main() {
	defaults := audio.DefaultConfig()
	var (
		backend  = flag.String("backend", "portaudio", "output device: portaudio, oto or null")
		rate     = flag.Int("rate", defaults.SampleRate, "sample rate in Hz")
		buffer   = flag.Int("buffer", defaults.BufferSize, "frames per buffer")
		channels = flag.Int("channels", defaults.Channels, "output channels")
		volCap   = flag.Float64("cap", defaults.VolumeCap, "maximum volume")
		input    = flag.String("input", "keys", "note input: keys, console or midi")
		midiPort = flag.String("midi-port", "", "MIDI input port; empty means the first one")
		sensor   = flag.String("sensor", "", "bellows sensor: none, sim, sysfs:PATH or wav:PATH; empty means none for the console, sim otherwise")
		poll     = flag.Duration("poll", 10*time.Millisecond, "sensor polling interval")
		hold     = flag.Duration("hold", 600*time.Millisecond, "release a key after it hasn't repeated for this long")
		meter    = flag.Bool("meter", true, "draw the bellows meter")
		preset   = flag.String("preset", "", "bellows preset")
		run      = flag.String("run", "", "file with console commands to run at start-up")
	)
	flag.Parse()

	if *poll <= 0 {
		log.Fatalf("-poll must be positive, got %v", *poll)
	}
	if *hold <= 0 {
		log.Fatalf("-hold must be positive, got %v", *hold)
	}

	var commands []string
	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			commands = append(commands, line)
		}
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}

	cfg := audio.Config{
		SampleRate: *rate,
		BufferSize: *buffer,
		Channels:   *channels,
		VolumeCap:  *volCap,
	}
	open, err := audio.Backend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := audio.NewEngine(cfg, open)
	if err != nil {
		log.Fatal(err)
	}

	tracker := bellows.NewTracker(engine)
	if *preset != "" {
		if err := tracker.LoadPreset(*preset); err != nil {
			log.Fatal(err)
		}
	}
	if *sensor == "" {
		// the console sets pressure by hand
		*sensor = "sim"
		if *input == "console" {
			*sensor = "none"
		}
	}
	sens, err := openSensor(*sensor, *poll)
	if err != nil {
		log.Fatal(err)
	}

	notes := keys.NewCounter(engine)
	mapper := keys.NewMapper(notes)
	mapper.Alias(`\`, "shift_r")
	mapper.Alias("`", keys.KeyMute)

	env := &env{
		synth:   engine,
		notes:   notes,
		keys:    mapper,
		devices: map[string]device{
			"bellows": tracker,
		},
	}

	if err := engine.Start(); err != nil {
		log.Fatal(err)
	}
	c := engine.Config()
	log.Printf("audio: %s output, %d Hz, %d frames (%v), %d channel(s)",
		*backend, c.SampleRate, c.BufferSize, c.BufferPeriod(), c.Channels)

	if err := runScript(env, commands); err == errQuit {
		if err := engine.Cleanup(); err != nil {
			log.Print(err)
		}
		fmt.Println("bye")
		return
	} else if err != nil {
		engine.Cleanup()
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	// a failed output device ends the session like a quit
	go func() {
		select {
		case <-engine.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	if sens != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tracker.Run(ctx, sens, *poll); err != nil {
				log.Printf("bellows: %v", err)
			}
			log.Printf("bellows: sensor done")
		}()
	}

	// the meter shares the terminal with raw key input only
	if *meter && *input == "keys" {
		disp := newDisplay(os.Stdout)
		log.SetOutput(disp)
		log.SetFlags(0)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runMeter(ctx, disp, tracker, engine)
		}()
	}

	switch *input {
	case "keys":
		err = runKeys(ctx, mapper, *hold)
	case "console":
		err = repl(ctx, env)
	case "midi":
		err = runMIDI(ctx, notes, *midiPort)
	default:
		err = fmt.Errorf("unknown input: %s", *input)
	}

	cancel()
	wg.Wait()
	log.SetOutput(os.Stderr)
	if err != nil {
		log.Print(err)
	}
	if err := engine.Cleanup(); err != nil {
		log.Print(err)
	}
	if err := engine.Err(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("bye")
}

func openSensor(name string, poll time.Duration) (bellows.Sensor, error) {
	kind, arg, _ := strings.Cut(name, ":")
	switch kind {
	case "none":
		return nil, nil
	case "sim":
		rate := 0.5
		if arg != "" {
			r, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("sim sensor rate: %w", err)
			}
			rate = r
		}
		return bellows.NewSweep(60, 120, rate), nil
	case "sysfs":
		if arg == "" {
			return nil, fmt.Errorf("sysfs sensor needs a path")
		}
		return &bellows.Sysfs{Path: arg}, nil
	case "wav":
		if arg == "" {
			return nil, fmt.Errorf("wav sensor needs a path")
		}
		trace, err := bellows.LoadWAVTrace(arg, float64(time.Second)/float64(poll))
		if err != nil {
			return nil, err
		}
		return trace, nil
	default:
		return nil, fmt.Errorf("unknown sensor: %s", name)
	}
}

package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	SampleRate int     // frames per second
	BufferSize int     // frames per callback
	Channels   int     // 1 or 2; the mono mix is copied to every channel
	VolumeCap  float64 // ceiling for SetPressure
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		BufferSize: 512,
		Channels:   1,
		VolumeCap:  DefaultVolumeCap,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive: %d", ErrConfig, c.SampleRate)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size must be positive: %d", ErrConfig, c.BufferSize)
	case c.Channels != 1 && c.Channels != 2:
		return fmt.Errorf("%w: unsupported channel count: %d", ErrConfig, c.Channels)
	case c.VolumeCap <= 0 || c.VolumeCap > 1:
		return fmt.Errorf("%w: volume cap must be in (0, 1]: %v", ErrConfig, c.VolumeCap)
	}
	return nil
}

// BufferPeriod is the time one callback buffer represents.
func (c Config) BufferPeriod() time.Duration {
	return time.Duration(c.BufferSize) * time.Second / time.Duration(c.SampleRate)
}

// Device is an audio output that calls back into the engine for every
// buffer it needs.
type Device interface {
	Start() error
	// Stop must not return before the last callback has returned.
	Stop() error
	Close() error
	// Err reports an error that ended output while running, e.g. a lost
	// device, or nil.
	Err() error
}

// Opener opens an output device that calls process with a buffer of
// interleaved samples to fill.
type Opener func(cfg Config, process func(out []float32)) (Device, error)

var backends = map[string]Opener{
	"portaudio": OpenPortAudio,
	"oto":       OpenOto,
	"null":      OpenNull,
}

// Backend returns the Opener registered under name.
func Backend(name string) (Opener, error) {
	open, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio backend: %s", name)
	}
	return open, nil
}

type engineState int

const (
	stateUninitialized engineState = iota
	stateRunning
	stateStopped
)

func (s engineState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateRunning:
		return "running"
	default:
		return "stopped"
	}
}

// Engine connects a Synth to an output device.
type Engine struct {
	*Synth
	cfg  Config
	open Opener

	// mu guards the lifecycle. The audio callback never takes it.
	mu      sync.Mutex
	state   engineState
	dev     Device
	stopped atomic.Bool

	mono   []float32
	levels *levelBuffer

	// done is closed once the engine stops for good, by Cleanup or by a
	// device failure found by watch.
	done     chan struct{}
	doneOnce sync.Once
	err      atomic.Value // error
	unwatch  chan struct{}
	watching sync.WaitGroup
}

// how often a running device is checked for failure
const watchInterval = 50 * time.Millisecond

func NewEngine(cfg Config, open Opener) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Synth:  NewSynth(float64(cfg.SampleRate), cfg.BufferSize, cfg.VolumeCap),
		cfg:    cfg,
		open:   open,
		mono:   make([]float32, cfg.BufferSize),
		levels: newLevelBuffer(64),
		done:   make(chan struct{}),
	}, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Start opens the output device and starts the stream. A device that fails
// to open leaves the engine stopped for good.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateRunning:
		return ErrRunning
	case stateStopped:
		return ErrStopped
	}

	dev, err := e.open(e.cfg, e.process)
	if err != nil {
		e.halt()
		e.finish()
		return fmt.Errorf("open output device: %w", err)
	}
	if err := dev.Start(); err != nil {
		e.halt()
		e.finish()
		return errors.Join(fmt.Errorf("start output device: %w", err), dev.Close())
	}
	e.dev = dev
	e.state = stateRunning
	e.unwatch = make(chan struct{})
	e.watching.Add(1)
	go e.watch(dev)
	return nil
}

// watch stops rendering once dev reports a failure. The device itself is
// released by Cleanup.
func (e *Engine) watch(dev Device) {
	defer e.watching.Done()
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.unwatch:
			return
		case <-ticker.C:
			if err := dev.Err(); err != nil {
				e.err.Store(fmt.Errorf("output device failed: %w", err))
				e.stopped.Store(true)
				e.Synth.close()
				e.finish()
				return
			}
		}
	}
}

func (e *Engine) finish() {
	e.doneOnce.Do(func() { close(e.done) })
}

// Done is closed when the engine has stopped, either by Cleanup or because
// the output device failed.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Err returns the device failure that stopped the engine, or nil.
func (e *Engine) Err() error {
	err, _ := e.err.Load().(error)
	return err
}

// Cleanup stops the stream and releases the device. It is safe to call from
// any goroutine and more than once; only the first call does anything.
func (e *Engine) Cleanup() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateStopped {
		return nil
	}
	wasRunning := e.state == stateRunning
	e.halt()
	defer e.finish()
	if !wasRunning {
		return nil
	}
	close(e.unwatch)
	e.watching.Wait()
	// the device is closed only after the stream has stopped calling back
	err := e.dev.Stop()
	return errors.Join(err, e.dev.Close())
}

func (e *Engine) halt() {
	e.state = stateStopped
	e.stopped.Store(true)
	e.Synth.close()
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateRunning
}

// Levels calls f for every buffer rendered since the last call. Only one
// goroutine may consume levels.
func (e *Engine) Levels(f func(Level)) int {
	return e.levels.drain(f)
}

// process is the device callback.
func (e *Engine) process(out []float32) {
	if e.stopped.Load() {
		silence(out)
		return
	}
	channels := e.cfg.Channels
	frames := len(out) / channels
	if frames > cap(e.mono) {
		e.mono = make([]float32, frames)
	}
	mono := e.mono[:frames]
	level := e.Synth.render(mono)

	for n, sample := range mono {
		if sample > level.Peak {
			level.Peak = sample
		} else if -sample > level.Peak {
			level.Peak = -sample
		}
		for c := 0; c < channels; c++ {
			out[n*channels+c] = sample
		}
	}
	silence(out[frames*channels:])
	e.levels.push(level)
}

func silence(buf []float32) {
	for n := range buf {
		buf[n] = 0
	}
}

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce     sync.Once
	otoContext  *oto.Context
	otoErr      error
	otoRate     int
	otoChannels int
)

// Oto allows a single context per process.
func sharedOtoContext(cfg Config) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoRate, otoChannels = cfg.SampleRate, cfg.Channels
		var ready chan struct{}
		otoContext, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: cfg.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   cfg.BufferPeriod(),
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != cfg.SampleRate || otoChannels != cfg.Channels {
		return nil, fmt.Errorf("oto context already open at %d Hz, %d channels", otoRate, otoChannels)
	}
	return otoContext, nil
}

// otoDevice adapts the engine callback to the io.Reader Oto pulls from.
type otoDevice struct {
	player   *oto.Player
	process  func([]float32)
	channels int
	buf      []float32
}

// OpenOto opens an Oto v3 player. Oto asks for bytes rather than frames, so
// buffer sizes are whatever its mixer requests.
func OpenOto(cfg Config, process func(out []float32)) (Device, error) {
	ctx, err := sharedOtoContext(cfg)
	if err != nil {
		return nil, err
	}
	d := &otoDevice{
		process:  process,
		channels: cfg.Channels,
		buf:      make([]float32, cfg.BufferSize*cfg.Channels),
	}
	d.player = ctx.NewPlayer(d)
	d.player.SetBufferSize(cfg.BufferSize * cfg.Channels * 4)
	return d, nil
}

func (d *otoDevice) Read(p []byte) (int, error) {
	samples := len(p) / 4
	samples -= samples % d.channels
	if samples == 0 {
		return 0, nil
	}
	if samples > cap(d.buf) {
		d.buf = make([]float32, samples)
	}
	buf := d.buf[:samples]
	d.process(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return samples * 4, nil
}

func (d *otoDevice) Start() error {
	d.player.Play()
	return nil
}

func (d *otoDevice) Stop() error {
	d.player.Pause()
	return nil
}

func (d *otoDevice) Close() error {
	return d.player.Close()
}

// Err reports an error Oto hit while pulling samples.
func (d *otoDevice) Err() error {
	return d.player.Err()
}

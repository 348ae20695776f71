package audio

import (
	"errors"

	"github.com/gordonklaus/portaudio"
)

type portAudioDevice struct {
	stream *portaudio.Stream
}

// OpenPortAudio opens the default PortAudio output with a callback stream.
func OpenPortAudio(cfg Config, process func(out []float32)) (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.BufferSize, process)
	if err != nil {
		return nil, errors.Join(err, portaudio.Terminate())
	}
	return &portAudioDevice{stream: stream}, nil
}

func (d *portAudioDevice) Start() error {
	return d.stream.Start()
}

// Stop waits for pending callbacks to finish.
func (d *portAudioDevice) Stop() error {
	return d.stream.Stop()
}

func (d *portAudioDevice) Close() error {
	err := d.stream.Close()
	return errors.Join(err, portaudio.Terminate())
}

// Err returns nil: the callback stream API surfaces failures only through
// Start, Stop and Close.
func (d *portAudioDevice) Err() error { return nil }

package audio

import (
	"sync"
	"time"
)

// nullDevice stands in for an audio output on machines without one. It
// calls back at the buffer period of the config and discards the samples.
type nullDevice struct {
	period  time.Duration
	process func([]float32)
	buf     []float32

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func OpenNull(cfg Config, process func(out []float32)) (Device, error) {
	return &nullDevice{
		period:  cfg.BufferPeriod(),
		process: process,
		buf:     make([]float32, cfg.BufferSize*cfg.Channels),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (d *nullDevice) Start() error {
	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.period)
		defer ticker.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-ticker.C:
				d.process(d.buf)
			}
		}
	}()
	return nil
}

func (d *nullDevice) Stop() error {
	d.once.Do(func() {
		close(d.stop)
		<-d.done
	})
	return nil
}

func (d *nullDevice) Close() error { return nil }

func (d *nullDevice) Err() error { return nil }

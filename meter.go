package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mrdg/squeezebox/audio"
)

const meterWidth = 30

// display shares one terminal line between a status line and log output
// written above it. Terminals in raw mode need \r\n line endings.
type display struct {
	mu     sync.Mutex
	w      io.Writer
	status string
}

func newDisplay(w io.Writer) *display {
	return &display{w: w}
}

func (d *display) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString("\r\033[K")
	buf.Write(bytes.ReplaceAll(bytes.TrimRight(p, "\n"), []byte("\n"), []byte("\r\n")))
	buf.WriteString("\r\n")
	buf.WriteString(d.status)
	if _, err := d.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *display) setStatus(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
	fmt.Fprintf(d.w, "\r\033[K%s", s)
}

type pressureReader interface {
	Velocity() float64
	Pressure() float64
}

type levelReader interface {
	Levels(f func(audio.Level)) int
}

func runMeter(ctx context.Context, d *display, bellows pressureReader, levels levelReader) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	var last audio.Level
	for {
		select {
		case <-ctx.Done():
			d.setStatus("")
			return
		case <-ticker.C:
			var peak float32
			n := levels.Levels(func(l audio.Level) {
				if l.Peak > peak {
					peak = l.Peak
				}
				last = l
			})
			if n > 0 {
				last.Peak = peak
			}
			d.setStatus(meterLine(bellows.Velocity(), bellows.Pressure(), last))
		}
	}
}

// meterLine draws the pressure as a bar followed by the numbers behind it.
func meterLine(velocity, pressure float64, l audio.Level) string {
	filled := int(pressure*meterWidth + 0.5)
	if filled > meterWidth {
		filled = meterWidth
	}
	if filled < 0 {
		filled = 0
	}
	color := colorGreen
	switch {
	case pressure >= 0.75:
		color = colorRed
	case pressure >= 0.4:
		color = colorYellow
	}
	bar := colorize(strings.Repeat("█", filled), color) + strings.Repeat("·", meterWidth-filled)
	return fmt.Sprintf("[%s] %6.1f°/s  pressure %.3f  volume %.3f  notes %d  peak %.2f",
		bar, velocity, pressure, l.Volume, l.Notes, l.Peak)
}

const (
	colorRed = iota + 31
	colorGreen
	colorYellow
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}

package bellows

import (
	"fmt"
	"io"
	"math"
	"os"

	wav "github.com/youpy/go-wav"
)

// WAVTrace replays an angle trace recorded as a WAV file. The first channel
// is used; sample values in [-1, 1] map to 0..180 degrees.
type WAVTrace struct {
	angles []float64
	pos    int
}

// LoadWAVTrace reads the trace at path and decimates it to pollRate
// readings per second. A pollRate of zero keeps every sample.
func LoadWAVTrace(path string, pollRate float64) (*WAVTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	step := 1
	if pollRate > 0 {
		step = int(math.Round(float64(format.SampleRate) / pollRate))
		if step < 1 {
			step = 1
		}
	}

	var trace WAVTrace
	var n int
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, sample := range samples {
			if n%step == 0 {
				v := r.FloatValue(sample, 0)
				trace.angles = append(trace.angles, (v+1)*90)
			}
			n++
		}
	}
	return &trace, nil
}

func (w *WAVTrace) Len() int { return len(w.angles) }

// Angle returns the next reading, or io.EOF at the end of the trace.
func (w *WAVTrace) Angle() (float64, error) {
	if w.pos >= len(w.angles) {
		return 0, io.EOF
	}
	angle := w.angles[w.pos]
	w.pos++
	return angle, nil
}

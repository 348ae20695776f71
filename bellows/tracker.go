// Package bellows turns the motion of a hinged surface into bellows pressure.
// The angular velocity of the hinge, not its angle, drives the pressure, the
// way moving air does on a real accordion.
package bellows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/mrdg/squeezebox/props"
)

const (
	propSmoothing   = "smoothing"
	propGate        = "gate"
	propMaxVelocity = "max_velocity"
	propCurve       = "curve"
)

// pressure below this is silence
const silence = 0.001

// PressureSetter receives pressure values in [0, 1].
type PressureSetter interface {
	SetPressure(p float64)
}

type Tracker struct {
	*props.Props
	smoothing   *atomic.Value
	gate        *atomic.Value
	maxVelocity *atomic.Value
	curve       *atomic.Value

	out PressureSetter

	// owned by the goroutine calling Update
	velocity  float64
	lastAngle float64
	lastTime  time.Time
	primed    bool

	// latest values for readers on other goroutines
	published struct {
		velocity atomic.Uint64
		pressure atomic.Uint64
	}
}

func NewTracker(out PressureSetter) *Tracker {
	p := props.New()
	t := &Tracker{
		Props:       p,
		smoothing:   p.MustRegister(propSmoothing, props.Float64(0.001, 1), 0.08),
		gate:        p.MustRegister(propGate, props.Float64(0, 90), 2.0),
		maxVelocity: p.MustRegister(propMaxVelocity, props.Float64(1, 2000), 150.0),
		curve:       p.MustRegister(propCurve, props.Float64(0.25, 8), 2.0),
		out:         out,
	}
	addPresets(p)
	return t
}

// Update feeds one angle reading in degrees taken at the given time and
// returns the pressure that was sent on. The first reading only primes the
// tracker.
func (t *Tracker) Update(angle float64, at time.Time) float64 {
	if !t.primed {
		t.lastAngle, t.lastTime, t.primed = angle, at, true
		return t.Pressure()
	}
	dt := at.Sub(t.lastTime).Seconds()
	if dt <= 0 {
		t.lastAngle, t.lastTime = angle, at
		return t.Pressure()
	}

	var (
		smoothing   = t.smoothing.Load().(float64)
		gate        = t.gate.Load().(float64)
		maxVelocity = t.maxVelocity.Load().(float64)
		curve       = t.curve.Load().(float64)
	)

	raw := math.Abs(angle-t.lastAngle) / dt
	if raw < gate {
		// screen wobble
		raw = 0
	}
	t.velocity = smoothing*raw + (1-smoothing)*t.velocity
	if t.velocity < gate {
		t.velocity = 0
	}

	pressure := math.Pow(math.Min(t.velocity/maxVelocity, 1), curve)
	if pressure < silence {
		pressure = 0
	}
	t.out.SetPressure(pressure)

	t.published.velocity.Store(math.Float64bits(t.velocity))
	t.published.pressure.Store(math.Float64bits(pressure))
	t.lastAngle, t.lastTime = angle, at
	return pressure
}

// Velocity returns the smoothed angular velocity in degrees per second.
func (t *Tracker) Velocity() float64 {
	return math.Float64frombits(t.published.velocity.Load())
}

func (t *Tracker) Pressure() float64 {
	return math.Float64frombits(t.published.pressure.Load())
}

// Run polls sensor every interval until ctx is done or the sensor runs out
// of readings. Failed reads skip the cycle.
func (t *Tracker) Run(ctx context.Context, sensor Sensor, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive: %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var failing bool
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			angle, err := sensor.Angle()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err == nil && (math.IsNaN(angle) || math.IsInf(angle, 0)) {
				err = ErrSensor
			}
			if err != nil {
				if !failing {
					log.Printf("bellows: %v", err)
				}
				failing = true
				continue
			}
			if failing {
				log.Printf("bellows: sensor recovered")
			}
			failing = false
			t.Update(angle, now)
		}
	}
}

package bellows

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrSensor = errors.New("sensor read failed")

// Sensor reads the current hinge angle in degrees.
type Sensor interface {
	Angle() (float64, error)
}

type SensorFunc func() (float64, error)

func (f SensorFunc) Angle() (float64, error) { return f() }

// Sysfs reads an angle from a sysfs attribute, e.g. the raw value of a
// hinge angle sensor exposed by the IIO subsystem at
// /sys/bus/iio/devices/iio:device0/in_angl_raw.
type Sysfs struct {
	Path  string
	Scale float64 // degrees per raw unit; zero means 1
}

func (s *Sysfs) Angle() (float64, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSensor, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSensor, s.Path, err)
	}
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	return v * scale, nil
}

// Sweep simulates someone working the bellows: the angle swings between
// Min and Max degrees Rate times per second.
type Sweep struct {
	Min, Max float64
	Rate     float64

	start time.Time
	now   func() time.Time
}

func NewSweep(min, max, rate float64) *Sweep {
	return &Sweep{Min: min, Max: max, Rate: rate, start: time.Now(), now: time.Now}
}

func (s *Sweep) Angle() (float64, error) {
	elapsed := s.now().Sub(s.start).Seconds()
	mid := (s.Min + s.Max) / 2
	amp := (s.Max - s.Min) / 2
	return mid + amp*math.Sin(2*math.Pi*s.Rate*elapsed), nil
}

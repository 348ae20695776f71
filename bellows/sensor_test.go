package bellows

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSysfs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in_angl_raw")
	if err := os.WriteFile(path, []byte("1200\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := &Sysfs{Path: path, Scale: 0.1}
	angle, err := s.Angle()
	if err != nil {
		t.Fatal(err)
	}
	if want := 120.0; math.Abs(want-angle) > 1e-9 {
		t.Errorf("want %v, got %v", want, angle)
	}

	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Angle(); !errors.Is(err, ErrSensor) {
		t.Errorf("expected ErrSensor, got %v", err)
	}

	missing := &Sysfs{Path: filepath.Join(t.TempDir(), "nope")}
	if _, err := missing.Angle(); !errors.Is(err, ErrSensor) {
		t.Errorf("expected ErrSensor, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	var elapsed time.Duration
	s := NewSweep(40, 100, 1)
	s.now = func() time.Time { return s.start.Add(elapsed) }

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 70},
		{250 * time.Millisecond, 100},
		{500 * time.Millisecond, 70},
		{750 * time.Millisecond, 40},
	}
	for _, test := range tests {
		elapsed = test.at
		got, err := s.Angle()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(test.want-got) > 1e-9 {
			t.Errorf("at %v: want %v, got %v", test.at, test.want, got)
		}
	}
}

// writeTrace writes a 16 bit mono PCM wav file.
func writeTrace(t *testing.T, sampleRate uint32, samples []int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dataSize := uint32(len(samples) * 2)
	header := []interface{}{
		[4]byte{'R', 'I', 'F', 'F'},
		36 + dataSize,
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(1), // mono
		sampleRate,
		sampleRate * 2,
		uint16(2),
		uint16(16),
		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
		samples,
	}
	for _, v := range header {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestWAVTrace(t *testing.T) {
	samples := make([]int16, 1000)
	for n := range samples {
		samples[n] = int16(n * 30)
	}
	path := writeTrace(t, 1000, samples)

	trace, err := LoadWAVTrace(path, 100)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 100, trace.Len(); want != got {
		t.Fatalf("want %v readings after decimation, got %v", want, got)
	}

	first, err := trace.Angle()
	if err != nil {
		t.Fatal(err)
	}
	if want := 90.0; math.Abs(want-first) > 1e-9 {
		t.Errorf("silent sample should map to 90 degrees, got %v", first)
	}
	prev := first
	for n := 1; n < trace.Len(); n++ {
		angle, err := trace.Angle()
		if err != nil {
			t.Fatal(err)
		}
		if angle <= prev || angle > 180 {
			t.Fatalf("reading %d: expected rising angle in range, got %v after %v", n, angle, prev)
		}
		prev = angle
	}
	if _, err := trace.Angle(); err != io.EOF {
		t.Errorf("expected io.EOF at end of trace, got %v", err)
	}
}

func TestWAVTraceMissingFile(t *testing.T) {
	if _, err := LoadWAVTrace(filepath.Join(t.TempDir(), "none.wav"), 100); err == nil {
		t.Errorf("expected error for missing file")
	}
}

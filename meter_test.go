package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mrdg/squeezebox/audio"
)

func TestMeterLine(t *testing.T) {
	tests := []struct {
		pressure float64
		filled   int
		color    int
	}{
		{0, 0, colorGreen},
		{0.1, 3, colorGreen},
		{0.5, 15, colorYellow},
		{1, meterWidth, colorRed},
		{1.5, meterWidth, colorRed},
	}
	for _, test := range tests {
		line := meterLine(40, test.pressure, audio.Level{Notes: 3, Volume: 0.25, Peak: 0.5})
		if want, got := test.filled, strings.Count(line, "█"); want != got {
			t.Errorf("pressure %v: want %d filled, got %d", test.pressure, want, got)
		}
		if want, got := meterWidth-test.filled, strings.Count(line, "·"); want != got {
			t.Errorf("pressure %v: want %d empty, got %d", test.pressure, want, got)
		}
		if color := fmt.Sprintf("\033[%dm", test.color); !strings.Contains(line, color) {
			t.Errorf("pressure %v: want color %d in %q", test.pressure, test.color, line)
		}
		if !strings.Contains(line, "notes 3") {
			t.Errorf("want note count in %q", line)
		}
	}
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := newDisplay(&buf)
	d.setStatus("[status]")
	buf.Reset()

	fmt.Fprintf(d, "one\ntwo\n")
	if want, got := "\r\033[Kone\r\ntwo\r\n[status]", buf.String(); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}

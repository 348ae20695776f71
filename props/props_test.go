package props

import (
	"errors"
	"reflect"
	"testing"
)

func TestSetAndGet(t *testing.T) {
	p := New()
	level := p.MustRegister("level", Float64(0, 1), 0.5)

	if want, got := 0.5, level.Load().(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := p.Set("level", 0.25); err != nil {
		t.Fatal(err)
	}
	v, err := p.Get("level")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0.25, v.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := p.Set("level", 1); err != nil {
		t.Errorf("int values should be accepted: %v", err)
	}
}

func TestSetErrors(t *testing.T) {
	p := New()
	p.MustRegister("level", Float64(0, 1), 0.5)
	p.MustRegister("name", String, "x")

	if err := p.Set("missing", 1.0); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if _, err := p.Get("missing"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if err := p.Set("level", 2.0); err == nil {
		t.Errorf("expected range error")
	}
	if err := p.Set("level", "loud"); err == nil {
		t.Errorf("expected type error")
	}
	if err := p.Set("name", 3); err == nil {
		t.Errorf("expected type error")
	}
	if v, _ := p.Get("level"); v.(float64) != 0.5 {
		t.Errorf("failed set changed the value: %v", v)
	}
}

func TestRegisterInvalidInit(t *testing.T) {
	p := New()
	if _, err := p.Register("level", Float64(0, 1), 3.0); err == nil {
		t.Errorf("expected error for out of range initial value")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("MustRegister should panic on invalid initial value")
		}
	}()
	p.MustRegister("other", Float64(0, 1), -1.0)
}

func TestPresets(t *testing.T) {
	p := New()
	a := p.MustRegister("a", Float64(0, 10), 1.0)
	b := p.MustRegister("b", Float64(0, 5), 1.0)
	p.AddPreset("loud", Preset{"a": 9.0, "b": 3})
	p.AddPreset("broken", Preset{"a": 2.0, "b": "x"})

	if err := p.LoadPreset("loud"); err != nil {
		t.Fatal(err)
	}
	if want, got := 9.0, a.Load().(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := 3.0, b.Load().(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := p.LoadPreset("nope"); err == nil {
		t.Errorf("expected unknown preset error")
	}
	if err := p.LoadPreset("broken"); err == nil {
		t.Errorf("expected invalid preset error")
	}
	if want, got := []string{"broken", "loud"}, p.Presets(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := []string{"a", "b"}, p.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

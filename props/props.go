// Package props stores device settings that can be read without locks from
// a hot loop while being changed from the console.
package props

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
)

var ErrUnknown = errors.New("unknown property")

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]Setter
	presets    map[string]Preset
}

// Preset is a named set of property values.
type Preset map[string]interface{}

func New() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]Setter),
		presets:    make(map[string]Preset),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknown, key)
	}
	set := p.setters[key]
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknown, key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names in order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, set Setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Props) MustRegister(key string, set Setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

// AddPreset makes values loadable by name. Values are validated when the
// preset is loaded.
func (p *Props) AddPreset(name string, values Preset) {
	p.presets[name] = values
}

// LoadPreset sets every property in the named preset. Properties are set in
// key order and loading stops at the first invalid value.
func (p *Props) LoadPreset(name string) error {
	preset, ok := p.presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	keys := make([]string, 0, len(preset))
	for k := range preset {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, preset[k]); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

// Presets returns the preset names in order.
func (p *Props) Presets() []string {
	names := make([]string, 0, len(p.presets))
	for name := range p.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Setter func(val interface{}, dest *atomic.Value) error

func Float64(min, max float64) Setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

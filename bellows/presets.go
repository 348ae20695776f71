package bellows

import "github.com/mrdg/squeezebox/props"

var presets = map[string]props.Preset{
	"default": {
		propSmoothing:   0.08,
		propGate:        2.0,
		propMaxVelocity: 150.0,
		propCurve:       2.0,
	},
	// needs big, slow movements
	"gentle": {
		propSmoothing:   0.04,
		propGate:        3.0,
		propMaxVelocity: 220.0,
		propCurve:       2.5,
	},
	"punchy": {
		propSmoothing:   0.2,
		propGate:        1.5,
		propMaxVelocity: 100.0,
		propCurve:       1.5,
	},
}

func addPresets(p *props.Props) {
	for name, preset := range presets {
		p.AddPreset(name, preset)
	}
}

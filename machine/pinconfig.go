package machine

import "github.com/jpl-firestep/firestep/gpio"

// PinConfig selects a board wiring preset (sys.pc). It is stored as a
// plain int32 on the wire; SetPinConfig is the only place that gives
// the number meaning by reassigning every axis's pin fields.
type PinConfig int32

// Recognized presets. Unknown values are accepted and stored (matching
// the original's unchecked processField<PinConfig,int32_t>) but
// SetPinConfig leaves pin assignments untouched for anything it does
// not recognize.
const (
	PinConfigDefault PinConfig = 0
	PinConfigRamps14 PinConfig = 1
)

// rampsPins is the axis pin table for the RAMPS 1.4 shield, the one
// alternate preset worth wiring a concrete table for.
var rampsPins = [AxisCount]struct {
	dir, enable, max, min, step int16
}{
	AxisX: {dir: 55, enable: 38, max: 2, min: 3, step: 54},
	AxisY: {dir: 61, enable: 56, max: 15, min: 14, step: 60},
	AxisZ: {dir: 48, enable: 62, max: 19, min: 18, step: 46},
}

// GetPinConfig returns the machine's current pin preset selector.
func (m *Machine) GetPinConfig() PinConfig {
	return m.pinConfig
}

// SetPinConfig applies pc's pin table to every axis and records pc as
// the active preset. An unrecognized pc still becomes the recorded
// value; it just leaves pins as they were.
func (m *Machine) SetPinConfig(pc PinConfig) {
	m.pinConfig = pc
	if pc != PinConfigRamps14 {
		return
	}
	for i := range m.Axes {
		row := rampsPins[i]
		m.Axes[i].PinDir = gpio.Pin(row.dir)
		m.Axes[i].PinEnable = gpio.Pin(row.enable)
		m.Axes[i].PinMax = gpio.Pin(row.max)
		m.Axes[i].PinMin = gpio.Pin(row.min)
		m.Axes[i].PinStep = gpio.Pin(row.step)
	}
}

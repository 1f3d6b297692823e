// Package machine holds the physical machine model: six axes, four
// motor channels, and the pin-level primitives (Pulse, Home, MoveTo)
// everything above it drives through.
package machine

import (
	"github.com/jpl-firestep/firestep/display"
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
	"github.com/jpl-firestep/firestep/stroke"
)

// MotorCount is the number of stroke channels the machine drives.
const MotorCount = 4

// Ticks counts heartbeat cycles, the machine's notion of elapsed time.
// It is an alias of stroke.Ticks so Machine.ThreadClock can be handed
// directly to Stroke.Start/Traverse without a conversion at every call
// site.
type Ticks = stroke.Ticks

// Machine is the whole physical model: axes, the motors that drive
// them, pin wiring, and the handful of global flags the host can set
// through sys.* and dpy.*.
type Machine struct {
	Axes   [AxisCount]Axis
	Motors [MotorCount]Motor
	Stroke stroke.Stroke

	Pins gpio.Pins

	pinConfig PinConfig

	InvertLim       bool // sys.lh
	JSONPrettyPrint bool // sys.jp

	Display display.Sink

	ThreadClock Ticks // sys.tc
}

// New returns a machine with every axis/motor at its defaults, driven
// through pins.
func New(pins gpio.Pins) *Machine {
	m := &Machine{Pins: pins}
	for i := range m.Axes {
		m.Axes[i] = NewAxis()
	}
	for i := range m.Motors {
		m.Motors[i] = NewMotor()
	}
	return m
}

// AxisOfName resolves a one-character axis key (x,y,z,a,b,c) to an
// AxisIndex, or IndexNone if key isn't a recognized axis letter.
func (m *Machine) AxisOfName(key string) AxisIndex {
	if len(key) == 0 {
		return IndexNone
	}
	return AxisOfName(key[0])
}

// MotorAxis returns the axis index motor iMotor currently drives, or
// IndexNone if iMotor is out of range or unmapped.
func (m *Machine) MotorAxis(iMotor int) AxisIndex {
	if iMotor < 0 || iMotor >= MotorCount {
		return IndexNone
	}
	return m.Motors[iMotor].AxisIndex
}

// SetMotorAxis maps motor iMotor to axis iAxis.
func (m *Machine) SetMotorAxis(iMotor int, iAxis AxisIndex) {
	if iMotor < 0 || iMotor >= MotorCount {
		return
	}
	m.Motors[iMotor].AxisIndex = iAxis
}

// Pulse advances every motor's driven axis by steps.Value[i] full
// step pulses (the sign gives direction), enforcing travel limits
// along the way. It is the single primitive stroke.Traverse calls
// once per interpolation step; Machine is the concrete type that
// satisfies stroke.Actuator.
func (m *Machine) Pulse(steps quad.T) status.Status {
	for i, delta := range steps.Value {
		if delta == 0 {
			continue
		}
		iAxis := m.MotorAxis(i)
		if iAxis == IndexNone {
			continue
		}
		axis := &m.Axes[iAxis]
		if !axis.IsEnabled() {
			return status.AxisDisabled
		}
		dir := delta > 0
		if axis.DirHigh {
			dir = !dir
		}
		level := gpio.Low
		if dir {
			level = gpio.High
		}
		m.Pins.Write(axis.PinDir, level)

		n := delta
		if n < 0 {
			n = -n
		}
		target := axis.Position + delta
		if !axis.InTravel(target) {
			if delta > 0 {
				return status.TravelMax
			}
			return status.TravelMin
		}
		for s := int32(0); s < n; s++ {
			m.Pins.Write(axis.PinStep, gpio.High)
			m.Pins.Write(axis.PinStep, gpio.Low)
		}
		axis.Position = target
	}
	return status.OK
}

// Home sets axis iAxis's position directly to its configured Home
// value. It issues no step pulses and does not read the min-limit
// switch, matching the original's synchronous "processHome" handshake
// semantics without a live step-by-step hardware loop in the
// controller layer.
func (m *Machine) Home(iAxis AxisIndex) status.Status {
	if iAxis == IndexNone || int(iAxis) >= len(m.Axes) {
		return status.AxisError
	}
	axis := &m.Axes[iAxis]
	if !axis.IsEnabled() {
		return status.AxisDisabled
	}
	axis.Homing = true
	axis.Position = axis.Home
	axis.Homing = false
	return status.OK
}

// MoveTo moves axis iAxis directly to pos, honoring travel limits.
// Nothing in the module calls it; ordinary motion goes through
// Machine.Pulse and stroke.Traverse instead.
func (m *Machine) MoveTo(iAxis AxisIndex, pos StepCoord) status.Status {
	if iAxis == IndexNone || int(iAxis) >= len(m.Axes) {
		return status.AxisError
	}
	axis := &m.Axes[iAxis]
	if !axis.IsEnabled() {
		return status.AxisDisabled
	}
	if !axis.InTravel(pos) {
		if pos > axis.TravelMax {
			return status.TravelMax
		}
		return status.TravelMin
	}
	axis.Position = pos
	return status.OK
}

// FreeRAM reports available heap, the Go stand-in for the original's
// AVR free-memory probe (sys.fr).
func FreeRAM() uint32 {
	return freeRAM()
}

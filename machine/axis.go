package machine

import (
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/util"
)

// AxisIndex selects one of the six named axes.
type AxisIndex int

// IndexNone marks "no axis mapped".
const IndexNone AxisIndex = -1

// Named axis indices, in the fixed x,y,z,a,b,c order spec.md §3 requires.
const (
	AxisX AxisIndex = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	AxisCount
)

// AxisOfName maps a single-character axis name to its index, or
// IndexNone if the character is not a recognized axis.
func AxisOfName(c byte) AxisIndex {
	switch c {
	case 'x':
		return AxisX
	case 'y':
		return AxisY
	case 'z':
		return AxisZ
	case 'a':
		return AxisA
	case 'b':
		return AxisB
	case 'c':
		return AxisC
	default:
		return IndexNone
	}
}

// StepCoord is a step-granularity coordinate: a position, a travel
// bound, or a delta expressed in steps.
type StepCoord = int32

// DelayMics is a delay expressed in microseconds.
type DelayMics = int32

// Axis is one of the machine's six degrees of freedom. Field names
// mirror the two-letter JSON keys the controller's axis handler
// recognizes (en, dh, ho, ...).
type Axis struct {
	enabled bool // en, mutated only through Enable/Disable

	DirHigh      bool          // dh: step/dir polarity
	Home         StepCoord     // ho: home step-coordinate
	IdleSnooze   DelayMics     // is: delay before idling the driver
	LatchBackoff StepCoord     // lb: backoff distance after a limit latch
	AtMax        bool          // lm: max limit switch state (read-only mirror)
	AtMin        bool          // ln: min limit switch state (read-only mirror)
	Microsteps   uint8         // mi: microstep multiplier, clamped >= 1
	PinDir       gpio.Pin      // pd
	PinEnable    gpio.Pin      // pe
	PinMax       gpio.Pin      // pm
	PinMin       gpio.Pin      // pn
	PinStep      gpio.Pin      // ps
	Position     StepCoord     // po: current position in steps
	StepAngle    float32       // sa: degrees per full step
	SearchDelay  DelayMics     // sd: homing search delay
	TravelMin    StepCoord     // tn
	TravelMax    StepCoord     // tm
	UsDelay      DelayMics     // ud: microseconds between step pulses
	Homing       bool          // not host-settable; set by the ho handshake

	limits util.Limiter // mirrors TravelMin/TravelMax for util.Clamp reuse
}

// NewAxis returns an axis with every pin unmapped and sane non-zero
// defaults (a zero Axis would divide by a zero StepAngle).
func NewAxis() Axis {
	return Axis{
		PinDir:     gpio.NoPin,
		PinEnable:  gpio.NoPin,
		PinMax:     gpio.NoPin,
		PinMin:     gpio.NoPin,
		PinStep:    gpio.NoPin,
		Microsteps: 1,
		StepAngle:  1.8,
		TravelMax:  1 << 20,
		TravelMin:  -(1 << 20),
	}
}

// IsEnabled reports whether the axis is currently driven.
func (a *Axis) IsEnabled() bool {
	return a.enabled
}

// Enable drives the enable pin and updates the enabled flag. Disabling
// an axis also clears Homing, matching the original's coupling between
// "enabled" and "eligible to home".
func (a *Axis) Enable(pins gpio.Pins, active bool) {
	a.enabled = active
	if !active {
		a.Homing = false
	}
	level := gpio.Low
	if active {
		level = gpio.High
	}
	pins.Write(a.PinEnable, level)
}

// ClampPosition returns pos bounded to [TravelMin, TravelMax].
func (a *Axis) ClampPosition(pos StepCoord) StepCoord {
	a.limits.Min = float64(a.TravelMin)
	a.limits.Max = float64(a.TravelMax)
	return StepCoord(a.limits.Clamp(float64(pos)))
}

// InTravel reports whether pos is within [TravelMin, TravelMax].
func (a *Axis) InTravel(pos StepCoord) bool {
	a.limits.Min = float64(a.TravelMin)
	a.limits.Max = float64(a.TravelMax)
	return a.limits.Check(float64(pos))
}

// ReadAtMax refreshes AtMax from the hardware limit switch, honoring the
// invertLim polarity flag.
func (a *Axis) ReadAtMax(pins gpio.Pins, invert bool) {
	a.AtMax = readLimit(pins, a.PinMax, invert)
}

// ReadAtMin refreshes AtMin from the hardware limit switch, honoring the
// invertLim polarity flag.
func (a *Axis) ReadAtMin(pins gpio.Pins, invert bool) {
	a.AtMin = readLimit(pins, a.PinMin, invert)
}

func readLimit(pins gpio.Pins, pin gpio.Pin, invert bool) bool {
	if pin == gpio.NoPin {
		return false
	}
	level := pins.Read(pin) == gpio.High
	if invert {
		return !level
	}
	return level
}

// Package gpio is the external collaborator that owns physical pin
// access. spec.md treats the low-level GPIO and timer drivers as
// out of scope; this package is the seam machine.Machine calls through,
// with a Sim implementation for tests and for running without real
// hardware attached.
package gpio

// Pin identifies a physical pin. NoPin marks an axis field that has not
// been mapped to hardware yet.
type Pin int16

// NoPin is the sentinel for an unmapped pin.
const NoPin Pin = -1

// Mode is a pin's direction.
type Mode int

const (
	Input Mode = iota
	Output
)

// Level is a pin's logic level.
type Level int

const (
	Low Level = iota
	High
)

// Pins is the hardware seam: set a pin's mode and initial value, drive
// it, and read it back. A real implementation talks to board registers;
// Sim keeps state in memory.
type Pins interface {
	SetMode(pin Pin, mode Mode, initial Level)
	Write(pin Pin, level Level)
	Read(pin Pin) Level
}

// Sim is an in-memory Pins implementation used by tests and by the
// demo/simulation build of the firmware binary.
type Sim struct {
	modes  map[Pin]Mode
	levels map[Pin]Level
	// Pulses counts writes per pin, useful for asserting on step counts
	// in tests without needing a real oscilloscope.
	Pulses map[Pin]int
}

// NewSim returns a ready-to-use simulated pin bank.
func NewSim() *Sim {
	return &Sim{
		modes:  make(map[Pin]Mode),
		levels: make(map[Pin]Level),
		Pulses: make(map[Pin]int),
	}
}

func (s *Sim) SetMode(pin Pin, mode Mode, initial Level) {
	if pin == NoPin {
		return
	}
	s.modes[pin] = mode
	s.levels[pin] = initial
}

func (s *Sim) Write(pin Pin, level Level) {
	if pin == NoPin {
		return
	}
	s.levels[pin] = level
	s.Pulses[pin]++
}

func (s *Sim) Read(pin Pin) Level {
	if pin == NoPin {
		return Low
	}
	return s.levels[pin]
}

// Package display is the external collaborator spec.md calls "pDisplay":
// an opaque status sink. The core pipeline never reads back from it; it
// only ever writes fields and requests a refresh via Show.
package display

// Status mirrors the original DISPLAY_* enum: the set of states the
// physical status panel (or its simulated stand-in) can render.
type Status uint8

const (
	Idle Status = iota
	Processing
	Operator
	Error
	WaitIdle
	WaitError
	WaitOperator
	BusyMoving
	Busy
	WaitCamera
)

// Sink is the display hardware seam. CameraR/G/B and Level are raw
// fields the host can poke directly through dpy.cb/cg/cr/dl; Status is
// set both by MachineThread (coarse class: idle/processing/operator/
// error) and directly by the host through dpy.ds (fine-grained wait
// states, see controller's processDisplay).
type Sink struct {
	CameraR uint8
	CameraG uint8
	CameraB uint8
	Level   uint8
	Status  Status
}

// SetStatus installs a new display status. MachineThread calls this once
// per heartbeat with the coarse status class; controller's dpy.ds handler
// does not call it, it writes a host-requested value into Status through
// field.ProcessInt.
func (s *Sink) SetStatus(st Status) {
	s.Status = st
}

// Show is a no-op placeholder for the real panel's refresh call; kept so
// that a hardware-backed Sink can satisfy the same call site without
// changing MachineThread.
func (s *Sink) Show() {}

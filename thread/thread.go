// Package thread is the cooperative heartbeat loop: a single
// goroutine that, once per tick, either feeds the link's next byte to
// the in-flight command, dispatches it through the controller, or
// flushes a finished response and starts the next command. There is
// exactly one producer (the link's reader) and one consumer (this
// loop); no locks are needed or used, matching the single-threaded
// original.
package thread

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/jpl-firestep/firestep/controller"
	"github.com/jpl-firestep/firestep/display"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
	"github.com/jpl-firestep/firestep/stroke"
)

// Source is the non-blocking byte source the heartbeat reads from: a
// single buffered byte and ok=true if one was available, without
// blocking the loop when the link is idle.
type Source interface {
	ReadByte() (b byte, ok bool)
}

// Sink is where a finished response line is written.
type Sink interface {
	WriteLine(line string) error
}

// Encoder renders a response tree to wire bytes; pretty vs. compact
// is a machine-wide flag (sys.jp), not a property of any one command.
type Encoder interface {
	Encode(resp map[string]interface{}, pretty bool) (string, error)
}

// state is the heartbeat's own notion of where it is in one
// request/response cycle, separate from the wire protocol Status a
// finished command carries.
type state int

const (
	stateIdle state = iota
	stateWaitEOL
	stateProcessing
	stateOperator
)

// Machine is the heartbeat loop: it owns the in-flight Command and the
// Controller that dispatches it, and ticks both forward by exactly one
// step per call to Heartbeat.
type Machine struct {
	Command    *jsoncmd.Command
	Controller *controller.Controller
	Link       Source
	Out        Sink
	Encoder    Encoder

	machine *machine.Machine
	state   state
	lastErr status.Status
}

// New wires a heartbeat loop around m, dispatching commands read from
// link and writing responses to out.
func New(m *machine.Machine, link Source, out Sink, enc Encoder) *Machine {
	return &Machine{
		Command:    jsoncmd.New(),
		Controller: controller.New(m),
		Link:       link,
		Out:        out,
		Encoder:    enc,
		machine:    m,
		state:      stateIdle,
	}
}

// Run calls Heartbeat in a loop, paced to stroke.TicksPerSecond by a
// rate.Limiter standing in for the hardware timer tick the original
// loop runs from. It returns when ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	lim := rate.NewLimiter(rate.Limit(stroke.TicksPerSecond), 1)
	for {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
		m.Heartbeat()
	}
}

// Heartbeat advances the loop by one step. Call it as fast as the
// host wants to poll; it never waits on the link (tst.rv's 250 ms
// pause inside the controller is the one deliberate delay).
func (m *Machine) Heartbeat() {
	switch m.state {
	case stateIdle:
		if b, ok := m.Link.ReadByte(); ok {
			m.feed(b)
		}
	case stateWaitEOL:
		if b, ok := m.Link.ReadByte(); ok {
			m.feed(b)
		}
	case stateProcessing:
		// new input during a move cancels it (see feed)
		if m.Command.GetStatus() == status.BusyMoving {
			if b, ok := m.Link.ReadByte(); ok {
				m.feed(b)
				break
			}
		}
		st := m.Controller.Process(m.Command)
		m.afterProcess(st)
	case stateOperator:
		// awaiting operator attention; a new byte arriving on the link
		// cancels it with SerialCancel and starts the next command.
		if b, ok := m.Link.ReadByte(); ok {
			m.cancel(status.SerialCancel)
			m.feed(b)
		}
	}

	m.displayStatus()
	m.machine.ThreadClock++
}

// feed routes one link byte into the current command, cancelling an
// in-flight motion command if new input arrives mid-move (spec.md's
// "new serial input during BUSY_MOVING" scenario).
func (m *Machine) feed(b byte) {
	if status.IsProcessing(m.Command.GetStatus()) && m.Command.GetStatus() == status.BusyMoving {
		m.cancel(status.SerialCancel)
	}
	st := m.Command.Feed(b)
	m.transition(st)
}

func (m *Machine) afterProcess(st status.Status) {
	m.transition(st)
}

// transition maps a just-produced status onto the loop's own state
// and, once the command is no longer processing, flushes the
// response and clears the command for the next line.
func (m *Machine) transition(st status.Status) {
	m.lastErr = st
	switch {
	case status.IsProcessing(st):
		if st == status.BusyMoving || st == status.Busy || st == status.BusyParsed || st == status.BusySetup {
			m.state = stateProcessing
		}
	case st == status.WaitEOL:
		m.state = stateWaitEOL
	case st == status.WaitIdle:
		m.state = stateIdle
	case st == status.WaitOperator, st == status.WaitCamera, st == status.WaitBusy, st == status.WaitMoving, st == status.WaitError:
		m.state = stateOperator
		m.sendResponse()
	default:
		m.Command.SetStatus(st)
		m.sendResponse()
		m.Command.Clear()
		m.state = stateIdle
	}
}

// cancel aborts the in-flight command with cause, sends its (now
// error-tagged) response immediately, and returns the loop to idle so
// the byte that triggered the cancellation starts a fresh command.
func (m *Machine) cancel(cause status.Status) {
	m.Command.SetStatus(cause)
	m.sendResponse()
	m.Command.Clear()
	m.state = stateIdle
}

func (m *Machine) sendResponse() {
	if m.Out == nil || m.Encoder == nil {
		return
	}
	line, err := m.Encoder.Encode(m.Command.Response, m.machine.JSONPrettyPrint)
	if err != nil {
		return
	}
	m.Out.WriteLine(line)
}

// displayStatus mirrors the loop's coarse state onto the display
// sink: MachineThread never reads the panel back, it only ever
// classifies and writes.
func (m *Machine) displayStatus() {
	sink := &m.machine.Display
	switch {
	case m.lastErr == status.OK:
		// leave the panel's current status alone
	case m.lastErr < 0:
		sink.SetStatus(display.Error)
	case m.state == stateIdle || m.state == stateWaitEOL:
		sink.SetStatus(display.Idle)
	case m.state == stateProcessing:
		sink.SetStatus(display.Processing)
	case m.state == stateOperator:
		sink.SetStatus(display.Operator)
	}
	sink.Show()
}

package controller_test

import (
	"testing"

	"github.com/jpl-firestep/firestep/controller"
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
)

func newTestRig(t *testing.T) (*machine.Machine, *controller.Controller) {
	t.Helper()
	pins := gpio.NewSim()
	m := machine.New(pins)
	m.SetMotorAxis(0, machine.AxisX)
	m.Axes[machine.AxisX].Enable(pins, true)
	c := controller.New(m)
	return m, c
}

func parse(t *testing.T, line string) *jsoncmd.Command {
	t.Helper()
	c := jsoncmd.New()
	if st := c.Parse(line); st != status.BusyParsed {
		t.Fatalf("Parse(%q) = %v, want BusyParsed", line, st)
	}
	return c
}

func TestProcessSysVersionQuery(t *testing.T) {
	_, ctl := newTestRig(t)
	cmd := parse(t, `{"sys":{"v":""}}`)
	if st := ctl.Process(cmd); st != status.OK {
		t.Fatalf("status = %v", st)
	}
	sys := cmd.Request["sys"].(map[string]interface{})
	if sys["v"] == nil {
		t.Fatalf("v not echoed: %v", sys)
	}
}

func TestProcessAxisEnableRoundTrip(t *testing.T) {
	m, ctl := newTestRig(t)
	cmd := parse(t, `{"xen":true}`)
	if st := ctl.Process(cmd); st != status.OK {
		t.Fatalf("status = %v", st)
	}
	if !m.Axes[machine.AxisX].IsEnabled() {
		t.Fatalf("axis should be enabled")
	}
	if cmd.Request["xen"] != true {
		t.Errorf("xen not echoed true: %v", cmd.Request["xen"])
	}
}

func TestProcessUnrecognizedAxisFieldErrors(t *testing.T) {
	_, ctl := newTestRig(t)
	cmd := parse(t, `{"xqq":1}`)
	if st := ctl.Process(cmd); st != status.UnrecognizedName {
		t.Fatalf("status = %v, want UnrecognizedName", st)
	}
}

func TestProcessMoveTwoHeartbeats(t *testing.T) {
	m, ctl := newTestRig(t)
	cmd := parse(t, `{"mov":{"1":50,"sr":1000}}`)

	st := ctl.Process(cmd)
	if st != status.BusyMoving {
		t.Fatalf("first heartbeat status = %v, want BusyMoving", st)
	}
	cmd.SetStatus(st)

	st = ctl.Process(cmd)
	if st != status.OK {
		t.Fatalf("second heartbeat status = %v, want OK", st)
	}
	if got := m.Axes[machine.AxisX].Position; got != 50 {
		t.Errorf("position = %d, want 50", got)
	}
}

func TestProcessHomeTwoHeartbeats(t *testing.T) {
	m, ctl := newTestRig(t)
	m.Axes[machine.AxisX].Home = -10

	cmd := parse(t, `{"ho":{"1":""}}`)
	st := ctl.Process(cmd)
	if st != status.BusyMoving {
		t.Fatalf("first heartbeat status = %v, want BusyMoving", st)
	}
	if !m.Axes[machine.AxisX].Homing {
		t.Fatalf("axis should be armed to home")
	}
	cmd.SetStatus(st)

	st = ctl.Process(cmd)
	if st != status.OK {
		t.Fatalf("second heartbeat status = %v, want OK", st)
	}
	if got := m.Axes[machine.AxisX].Position; got != -10 {
		t.Errorf("position = %d, want -10", got)
	}
}

func TestProcessStrokeDvsTraversal(t *testing.T) {
	_, ctl := newTestRig(t)
	cmd := parse(t, `{"dvs":{"us":2000,"1":[10,-5]}}`)

	st := ctl.Process(cmd)
	if st != status.BusyMoving {
		t.Fatalf("first heartbeat status = %v, want BusyMoving", st)
	}
	cmd.SetStatus(st)

	for i := 0; i < 10 && st == status.BusyMoving; i++ {
		st = ctl.Process(cmd)
		cmd.SetStatus(st)
	}
	if st != status.OK {
		t.Fatalf("stroke should complete, got %v", st)
	}
}

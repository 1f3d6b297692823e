package machine_test

import (
	"testing"

	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
)

func newEnabledMachine() *machine.Machine {
	pins := gpio.NewSim()
	m := machine.New(pins)
	for i := range m.Axes {
		m.Axes[i].Enable(pins, true)
	}
	m.SetMotorAxis(0, machine.AxisX)
	m.SetMotorAxis(1, machine.AxisY)
	return m
}

func TestPulseAdvancesMappedAxisPosition(t *testing.T) {
	m := newEnabledMachine()
	var steps quad.T
	steps.Value[0] = 10
	if s := m.Pulse(steps); s != status.OK {
		t.Fatalf("Pulse returned %v", s)
	}
	if got := m.Axes[machine.AxisX].Position; got != 10 {
		t.Errorf("position = %d, want 10", got)
	}
}

func TestPulseRejectsDisabledAxis(t *testing.T) {
	pins := gpio.NewSim()
	m := machine.New(pins)
	m.SetMotorAxis(0, machine.AxisX)
	var steps quad.T
	steps.Value[0] = 1
	if s := m.Pulse(steps); s != status.AxisDisabled {
		t.Fatalf("status = %v, want AxisDisabled", s)
	}
}

func TestPulseEnforcesTravelLimit(t *testing.T) {
	m := newEnabledMachine()
	m.Axes[machine.AxisX].TravelMax = 5
	var steps quad.T
	steps.Value[0] = 10
	if s := m.Pulse(steps); s != status.TravelMax {
		t.Fatalf("status = %v, want TravelMax", s)
	}
}

func TestHomeZeroesAtConfiguredHomePosition(t *testing.T) {
	m := newEnabledMachine()
	m.Axes[machine.AxisX].Home = -100
	m.Axes[machine.AxisX].Position = 42
	if s := m.Home(machine.AxisX); s != status.OK {
		t.Fatalf("Home returned %v", s)
	}
	if got := m.Axes[machine.AxisX].Position; got != -100 {
		t.Errorf("position = %d, want -100", got)
	}
	if m.Axes[machine.AxisX].Homing {
		t.Errorf("homing should clear once the handshake completes")
	}
}

func TestAxisOfNameRecognizesAllSixLetters(t *testing.T) {
	m := newEnabledMachine()
	cases := map[string]machine.AxisIndex{
		"x": machine.AxisX, "y": machine.AxisY, "z": machine.AxisZ,
		"a": machine.AxisA, "b": machine.AxisB, "c": machine.AxisC,
		"q": machine.IndexNone, "": machine.IndexNone,
	}
	for key, want := range cases {
		if got := m.AxisOfName(key); got != want {
			t.Errorf("AxisOfName(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestSetPinConfigRamps14RewiresAxisPins(t *testing.T) {
	m := newEnabledMachine()
	m.SetPinConfig(machine.PinConfigRamps14)
	if m.GetPinConfig() != machine.PinConfigRamps14 {
		t.Fatalf("GetPinConfig() = %v", m.GetPinConfig())
	}
	if m.Axes[machine.AxisX].PinStep != 54 {
		t.Errorf("x step pin = %d, want 54", m.Axes[machine.AxisX].PinStep)
	}
}

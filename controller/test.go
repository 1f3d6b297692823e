package controller

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
)

// processTest handles "tst" and its three sub-commands: rv (spin N
// revolutions forward then back), sp (raw step pulses), ph (the
// self-test harness). All three only make sense while a command is
// in flight (BUSY_PARSED on the initiating call, BUSY_MOVING on any
// continuation); anything else is simply not reached, mirroring the
// original's switch-on-status guard.
func (c *Controller) processTest(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	st := jcmd.GetStatus()
	if st != status.BusyParsed && st != status.BusyMoving {
		return st
	}

	if key == "tst" {
		kid, ok := obj[key].(map[string]interface{})
		if !ok {
			return jcmd.SetError(status.JSONObject, key)
		}
		result := status.OK
		for k := range kid {
			result = c.processTest(jcmd, kid, k)
		}
		return result
	}

	name := strings.TrimPrefix(key, "tst")
	switch name {
	case "rv":
		return c.testRevolutions(obj, key)
	case "sp":
		return c.testStepPulses(obj, key)
	case "ph":
		return c.selfTest.process(jcmd, obj, key)
	default:
		return jcmd.SetError(status.UnrecognizedName, key)
	}
}

// testRevolutions spins each named motor's axis the requested number
// of full revolutions (signed), pauses 250 ms, then pulses the
// absolute value of the same step counts — a quick "is this axis wired
// and geared the way I think" smoke test. msRev is computed
// (milliseconds per revolution, at the axis's configured step delay)
// but never used for anything beyond that computation, matching the
// original exactly.
func (c *Controller) testRevolutions(obj map[string]interface{}, key string) status.Status {
	arr, ok := obj[key].([]interface{})
	if !ok {
		return status.FieldArrayError
	}

	var steps quad.T
	for i := 0; i < 4 && i < len(arr); i++ {
		revs, ok := asInt(arr[i])
		if !ok {
			continue
		}
		iAxis := c.Machine.MotorAxis(i)
		if iAxis == machine.IndexNone {
			continue
		}
		axis := &c.Machine.Axes[iAxis]
		if axis.StepAngle == 0 {
			continue
		}
		revSteps := int32(360.0 / axis.StepAngle)
		revMicrosteps := revSteps * int32(axis.Microsteps)
		msRev := (axis.UsDelay * revMicrosteps) / 1000
		_ = msRev // computed, matches the original, never consumed further
		steps.Value[i] = int32(revs) * revMicrosteps
	}

	st := c.Machine.Pulse(steps)
	if st == status.OK {
		time.Sleep(250 * time.Millisecond)
		back := steps.AbsoluteValue()
		st = c.Machine.Pulse(back)
	}
	if st == status.OK {
		return status.BusyMoving
	}
	return st
}

// testStepPulses pulses each named motor's axis by a raw signed step
// count, with no revolution math applied.
func (c *Controller) testStepPulses(obj map[string]interface{}, key string) status.Status {
	arr, ok := obj[key].([]interface{})
	if !ok {
		return status.FieldArrayError
	}
	var steps quad.T
	for i := 0; i < 4 && i < len(arr); i++ {
		n, ok := asInt(arr[i])
		if !ok {
			continue
		}
		steps.Value[i] = int32(n)
	}
	return c.Machine.Pulse(steps)
}

func asInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

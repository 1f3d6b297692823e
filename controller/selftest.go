package controller

import (
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
	"github.com/jpl-firestep/firestep/stroke"
	"github.com/jpl-firestep/firestep/strokebuilder"
)

var selfTestChildren = []string{"lp", "mv", "pp", "pu", "sg", "te", "tp", "tv"}

// phSelfTest is tst.ph: drive every enabled motor channel by a
// configurable pulse count, forward then reverse, repeating
// indefinitely, and report timing/throughput stats back to the host.
// It holds its own small parameter set separate from Controller
// because, like the original, it is reentered across many heartbeats
// while a stroke plays out.
type phSelfTest struct {
	machine *machine.Machine

	nSamples int32
	pulses   int32
	vMax     int32
	tvMax    float64
	nSegs    int16
}

func newPHSelfTest(m *machine.Machine) phSelfTest {
	return phSelfTest{
		machine: m,
		pulses:  6400,
		vMax:    12800,
		tvMax:   0.7,
	}
}

// process handles "tstph" and its eight fields. Most fields are plain
// parameters; "lp"/"pp"/"te"/"tp" are output-only and ignored on
// assignment, matching the original's output-variable placeholders.
func (t *phSelfTest) process(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	if key == "tstph" || key == "ph" {
		kid, st := expand(obj, key, selfTestChildren)
		if st != status.OK {
			return jcmd.SetError(status.JSONObject, key)
		}
		for _, k := range orderedKeys(selfTestChildren, kid) {
			if st := t.process(jcmd, kid, k); st != status.OK {
				return st
			}
		}
		return t.execute(kid)
	}

	name := fieldName(key)
	switch name {
	case "lp", "pp", "te", "tp":
		return status.OK
	case "mv":
		return field.ProcessInt(obj, key, &t.vMax)
	case "pu":
		return field.ProcessInt(obj, key, &t.pulses)
	case "sg":
		return field.ProcessInt(obj, key, &t.nSegs)
	case "tv":
		return field.ProcessFloat64(obj, key, &t.tvMax)
	default:
		return jcmd.SetError(status.UnrecognizedName, key)
	}
}

// execute builds and fully traverses one forward stroke and, on
// success, one reverse stroke of the same magnitude, then reports the
// run's timing and throughput into obj. It always finishes by asking
// to be called again (BUSY_MOVING), so the self test repeats for as
// long as the host keeps sending tstph.
func (t *phSelfTest) execute(obj map[string]interface{}) status.Status {
	minSegs := t.nSegs
	maxSegs := t.nSegs
	if int(maxSegs) >= stroke.SegmentCount {
		obj["sg"] = int64(0)
		return status.StrokeMaxLen
	}

	var target quad.T
	for i := 0; i < machine.MotorCount; i++ {
		if t.machine.MotorAxis(i) != machine.IndexNone && t.machine.Axes[t.machine.MotorAxis(i)].IsEnabled() {
			target.Value[i] = t.pulses
		}
	}

	builder := strokebuilder.New(t.vMax, t.tvMax, minSegs, maxSegs)
	vPeak, st := builder.BuildLine(&t.machine.Stroke, target)
	if st != status.OK {
		return st
	}
	t.machine.Stroke.Start(t.machine.ThreadClock)

	for {
		t.nSamples++
		st = t.machine.Stroke.Traverse(t.machine.ThreadClock, t.machine)
		if st != status.BusyMoving {
			break
		}
	}
	if st == status.OK {
		// reverse direction and repeat
		reverse := quad.T{}
		for i, v := range target.Value {
			reverse.Value[i] = -v
		}
		vPeak2, st2 := builder.BuildLine(&t.machine.Stroke, reverse)
		if st2 != status.OK {
			return st2
		}
		vPeak = vPeak2
		t.machine.Stroke.Start(t.machine.ThreadClock)
		for {
			t.nSamples++
			st2 = t.machine.Stroke.Traverse(t.machine.ThreadClock, t.machine)
			if st2 != status.BusyMoving {
				break
			}
		}
		st = st2
	}
	if st == status.OK {
		st = status.BusyMoving // repeat indefinitely
	}

	length := int32(t.machine.Stroke.Length)
	tp := t.machine.Stroke.GetTimePlanned()
	obj["lp"] = int64(t.nSamples)
	if length > 0 {
		obj["pp"] = vPeak
	} else {
		obj["pp"] = 0.0
	}
	obj["sg"] = int64(length)
	obj["te"] = float64(tp)
	obj["tp"] = float64(tp)

	return st
}

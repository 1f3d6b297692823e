package stroke_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
	"github.com/jpl-firestep/firestep/stroke"
)

func decodeObj(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return obj
}

type fakeActuator struct {
	pulses []quad.T
	fail   status.Status
}

func (f *fakeActuator) Pulse(steps quad.T) status.Status {
	if f.fail != status.OK {
		return f.fail
	}
	f.pulses = append(f.pulses, steps)
	return status.OK
}

func TestInitializeRequiresUs(t *testing.T) {
	obj := decodeObj(t, `{"1":[1,2,3]}`)
	var s stroke.Stroke
	if got := s.Initialize(obj); got != status.FieldRequired {
		t.Fatalf("status = %v, want FieldRequired", got)
	}
}

func TestInitializeRejectsMismatchedLengths(t *testing.T) {
	obj := decodeObj(t, `{"us":1000,"1":[1,2,3],"2":[1,2]}`)
	var s stroke.Stroke
	if got := s.Initialize(obj); got != status.S1S2LenError {
		t.Fatalf("status = %v, want S1S2LenError", got)
	}
}

func TestInitializeRejectsOutOfRangeSegmentValue(t *testing.T) {
	obj := decodeObj(t, `{"us":1000,"1":[128]}`)
	var s stroke.Stroke
	if got := s.Initialize(obj); got != status.RangeError {
		t.Fatalf("status = %v, want RangeError", got)
	}
}

func TestInitializeAcceptsValidStrokeAndGoesBusyMoving(t *testing.T) {
	obj := decodeObj(t, `{"us":2000,"1":[10,-5],"2":[3,3]}`)
	var s stroke.Stroke
	got := s.Initialize(obj)
	if got != status.BusyMoving {
		t.Fatalf("status = %v, want BusyMoving", got)
	}
	if s.Length != 2 {
		t.Fatalf("length = %d, want 2", s.Length)
	}
}

func TestTraverseWalksEverySegmentThenReportsOK(t *testing.T) {
	obj := decodeObj(t, `{"us":2000,"1":[10,-5]}`)
	var s stroke.Stroke
	if st := s.Initialize(obj); st != status.BusyMoving {
		t.Fatalf("Initialize status = %v", st)
	}
	s.Start(0)

	act := &fakeActuator{}
	st := s.Traverse(0, act)
	if st != status.BusyMoving {
		t.Fatalf("first Traverse status = %v, want BusyMoving", st)
	}
	st = s.Traverse(1, act)
	if st != status.OK {
		t.Fatalf("final Traverse status = %v, want OK", st)
	}
	if len(act.pulses) != 2 {
		t.Fatalf("pulses = %d, want 2", len(act.pulses))
	}
	if act.pulses[0].Value[0] != 10 || act.pulses[1].Value[0] != -5 {
		t.Errorf("pulses = %+v", act.pulses)
	}
	if got := s.Position().Value[0]; got != 5 {
		t.Errorf("accumulated position = %d, want 5", got)
	}
}

func TestTraversePropagatesActuatorError(t *testing.T) {
	obj := decodeObj(t, `{"us":2000,"1":[10]}`)
	var s stroke.Stroke
	s.Initialize(obj)
	s.Start(0)
	act := &fakeActuator{fail: status.TravelMax}
	if st := s.Traverse(0, act); st != status.TravelMax {
		t.Fatalf("status = %v, want TravelMax", st)
	}
}

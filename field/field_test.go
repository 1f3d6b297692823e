package field_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/status"
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

func TestProcessIntQuery(t *testing.T) {
	obj := decodeObj(t, `{"mi":""}`)
	var microsteps uint8 = 16
	s := field.ProcessInt(obj, "mi", &microsteps)
	if s != status.OK {
		t.Fatalf("status = %v", s)
	}
	if obj["mi"] != int64(16) {
		t.Errorf("echoed %v, want 16", obj["mi"])
	}
}

func TestProcessIntAssignment(t *testing.T) {
	obj := decodeObj(t, `{"mi":32}`)
	var microsteps uint8 = 16
	s := field.ProcessInt(obj, "mi", &microsteps)
	if s != status.OK {
		t.Fatalf("status = %v", s)
	}
	if microsteps != 32 {
		t.Errorf("microsteps = %d, want 32", microsteps)
	}
}

func TestProcessIntOutOfRangeNarrowing(t *testing.T) {
	obj := decodeObj(t, `{"pd":40000}`)
	var pin int16 = -1
	s := field.ProcessInt(obj, "pd", &pin)
	if s != status.ValueRange {
		t.Fatalf("status = %v, want ValueRange", s)
	}
}

func TestProcessBoolRoundTrip(t *testing.T) {
	obj := decodeObj(t, `{"en":true}`)
	var enabled bool
	s := field.ProcessBool(obj, "en", &enabled)
	if s != status.OK || !enabled {
		t.Fatalf("status=%v enabled=%v", s, enabled)
	}

	obj2 := decodeObj(t, `{"en":""}`)
	s = field.ProcessBool(obj2, "en", &enabled)
	if s != status.OK || obj2["en"] != true {
		t.Fatalf("query echo failed: status=%v val=%v", s, obj2["en"])
	}
}

func TestProcessFloat32Narrowing(t *testing.T) {
	obj := decodeObj(t, `{"sa":1.8}`)
	var stepAngle float32
	s := field.ProcessFloat32(obj, "sa", &stepAngle)
	if s != status.OK {
		t.Fatalf("status = %v", s)
	}
	if stepAngle != 1.8 {
		t.Errorf("stepAngle = %v, want 1.8", stepAngle)
	}
}

func TestSegmentValueBoundaries(t *testing.T) {
	obj := decodeObj(t, `{"1":127}`)
	var v int8
	if s := field.ProcessInt(obj, "1", &v); s != status.OK || v != 127 {
		t.Fatalf("127 should be accepted, got status=%v v=%d", s, v)
	}
	obj2 := decodeObj(t, `{"1":128}`)
	var v2 int8
	if s := field.ProcessInt(obj2, "1", &v2); s != status.ValueRange {
		t.Fatalf("128 should be rejected, got status=%v", s)
	}
}

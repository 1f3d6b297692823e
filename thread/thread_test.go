package thread_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/thread"
)

// fakeSource feeds one pre-loaded line, byte by byte, to the heartbeat
// loop, then reports empty.
type fakeSource struct {
	bytes []byte
	pos   int
}

func newFakeSource(line string) *fakeSource {
	return &fakeSource{bytes: []byte(line)}
}

func (f *fakeSource) ReadByte() (byte, bool) {
	if f.pos >= len(f.bytes) {
		return 0, false
	}
	b := f.bytes[f.pos]
	f.pos++
	return b, true
}

type fakeSink struct {
	lines []string
}

func (f *fakeSink) WriteLine(line string) error {
	f.lines = append(f.lines, line)
	return nil
}

func newTestMachine(t *testing.T) (*machine.Machine, *fakeSource, *fakeSink) {
	t.Helper()
	pins := gpio.NewSim()
	m := machine.New(pins)
	return m, newFakeSource(""), &fakeSink{}
}

func TestHeartbeatRoundTripsSimpleQuery(t *testing.T) {
	m, src, sink := newTestMachine(t)
	src.bytes = []byte(`{"sys":{"v":""}}` + "\n")

	hb := thread.New(m, src, sink, jsoncmd.Encoder{})
	for i := 0; i < len(src.bytes)+5 && len(sink.lines) == 0; i++ {
		hb.Heartbeat()
	}
	if len(sink.lines) != 1 {
		t.Fatalf("expected one response line, got %v", sink.lines)
	}
	if !cmp.Equal(true, len(sink.lines[0]) > 0) {
		t.Fatalf("response line was empty")
	}
}

func TestHeartbeatReportsUnrecognizedField(t *testing.T) {
	m, src, sink := newTestMachine(t)
	src.bytes = []byte(`{"xqq":1}` + "\n")

	hb := thread.New(m, src, sink, jsoncmd.Encoder{})
	for i := 0; i < len(src.bytes)+5 && len(sink.lines) == 0; i++ {
		hb.Heartbeat()
	}
	if len(sink.lines) != 1 {
		t.Fatalf("expected one response line, got %v", sink.lines)
	}
	if want := `"s":-`; !containsSubstring(sink.lines[0], want) {
		t.Fatalf("response %q should carry a negative status", sink.lines[0])
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// Package stroke is the real-time motion engine: a precomputed
// sequence of per-motor step deltas (a Stroke) and the code that
// traverses it one heartbeat at a time.
package stroke

import (
	"encoding/json"

	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
)

// SegmentCount bounds how many interpolation segments a single stroke
// can hold.
const SegmentCount = 100

// TicksPerSecond is the heartbeat rate the stroke's time fields are
// expressed in.
const TicksPerSecond = 1000

// Ticks counts heartbeat cycles.
type Ticks int64

// Segment is one interpolation step: a signed delta per motor channel,
// clamped to the wire protocol's -127..127 range.
type Segment struct {
	Value [4]int8
}

// Actuator is the seam Traverse pulses through. machine.Machine
// satisfies it; stroke never imports machine so that machine can hold
// a Stroke workspace without an import cycle.
type Actuator interface {
	Pulse(steps quad.T) status.Status
}

// Stroke is one planned move: up to SegmentCount interpolation steps,
// a timing budget, and the accumulated position reached so far.
type Stroke struct {
	Seg    [SegmentCount]Segment
	Length int16
	CurSeg int16

	DEndPos quad.T
	Scale   int32

	TStart   Ticks
	DtTotal  Ticks
	timePlanned float32 // seconds, from "us"
	VPeak    float64

	position quad.T // accumulated position reached by Traverse so far
}

// Clear resets the stroke to its zero state, ready for a new
// Initialize call.
func (s *Stroke) Clear() {
	*s = Stroke{}
}

// SetTimePlanned records the planned move duration in seconds (us/1e6
// in the wire protocol) and derives DtTotal in ticks.
func (s *Stroke) SetTimePlanned(seconds float32) {
	s.timePlanned = seconds
	s.DtTotal = Ticks(seconds * TicksPerSecond)
}

// GetTimePlanned returns the planned move duration in seconds.
func (s *Stroke) GetTimePlanned() float32 {
	return s.timePlanned
}

// Position returns the position reached by the stroke so far.
func (s *Stroke) Position() quad.T {
	return s.position
}

// appendValue appends one interpolation value for motor iMotor at
// segment index slen[iMotor], enforcing the -127..127 wire range.
func (s *Stroke) appendValue(iMotor int, slen *int16, v int64) status.Status {
	if v < -127 || 127 < v {
		return status.RangeError
	}
	if int(*slen) >= SegmentCount-1 {
		return status.StrokeMaxLen
	}
	s.Seg[*slen].Value[iMotor] = int8(v)
	*slen++
	return status.OK
}

// motorOfKey resolves a stroke-array key ("1".."4") to a zero-based
// motor index, or -1 if key isn't one of the four channels.
func motorOfKey(key string) int {
	if len(key) != 1 {
		return -1
	}
	switch key[0] {
	case '1':
		return 0
	case '2':
		return 1
	case '3':
		return 2
	case '4':
		return 3
	default:
		return -1
	}
}

// Initialize parses a dvs/stroke request object: "us" (planned move
// time in microseconds, required), "dp" (destination position array,
// optional), "sc" (scale, optional), and up to four per-motor segment
// arrays keyed "1".."4". It returns STATUS_BUSY_MOVING on success,
// matching the original handshake where a freshly-initialized stroke
// immediately becomes the in-flight move.
func (s *Stroke) Initialize(obj map[string]interface{}) status.Status {
	s.Clear()
	var slen [4]int16
	usOK := false

	for key, raw := range obj {
		switch key {
		case "us":
			n, ok := asInt64(raw)
			if !ok {
				return status.FieldError
			}
			s.SetTimePlanned(float32(n) / 1000000.0)
			usOK = true
		case "dp":
			arr, ok := raw.([]interface{})
			if !ok || len(arr) == 0 {
				return status.JSONArrayLen
			}
			for i := 0; i < 4 && i < len(arr); i++ {
				n, ok := asInt64(arr[i])
				if !ok {
					return status.FieldError
				}
				s.DEndPos.Value[i] = int32(n)
			}
		case "sc":
			n, ok := asInt64(raw)
			if !ok {
				return status.FieldError
			}
			s.Scale = int32(n)
		default:
			iMotor := motorOfKey(key)
			if iMotor < 0 {
				return status.NoMotor
			}
			arr, ok := raw.([]interface{})
			if !ok {
				return status.FieldArrayError
			}
			for _, el := range arr {
				n, ok := asInt64(el)
				if !ok {
					return status.FieldError
				}
				if st := s.appendValue(iMotor, &slen[iMotor], n); st != status.OK {
					return st
				}
			}
		}
	}

	if !usOK {
		return status.FieldRequired
	}
	if slen[0] != 0 && slen[1] != 0 && slen[0] != slen[1] {
		return status.S1S2LenError
	}
	if slen[0] != 0 && slen[2] != 0 && slen[0] != slen[2] {
		return status.S1S3LenError
	}
	if slen[0] != 0 && slen[3] != 0 && slen[0] != slen[3] {
		return status.S1S4LenError
	}
	length := slen[0]
	if length == 0 {
		length = slen[1]
	}
	if length == 0 {
		length = slen[2]
	}
	if length == 0 {
		length = slen[3]
	}
	s.Length = length
	if s.Length == 0 {
		return status.StrokeNullError
	}
	return status.BusyMoving
}

// Start arms the stroke to begin traversal at tStart.
func (s *Stroke) Start(tStart Ticks) status.Status {
	s.TStart = tStart
	s.CurSeg = 0
	s.position = quad.T{}
	return status.OK
}

// Traverse advances the stroke by one interpolation segment per call,
// pulsing act with the segment's deltas (each scaled by Scale, or used
// verbatim if Scale is zero). now is not consulted: segments are not
// paced against TStart or DtTotal, so the caller's call rate sets the
// speed. It returns STATUS_BUSY_MOVING while segments remain and
// STATUS_OK once CurSeg reaches Length.
func (s *Stroke) Traverse(now Ticks, act Actuator) status.Status {
	if s.CurSeg >= s.Length {
		return status.OK
	}
	seg := s.Seg[s.CurSeg]
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	var steps quad.T
	for i, v := range seg.Value {
		steps.Value[i] = int32(v) * scale
	}
	if st := act.Pulse(steps); st != status.OK {
		return st
	}
	s.position = s.position.Add(steps)
	s.CurSeg++
	if s.CurSeg >= s.Length {
		return status.OK
	}
	return status.BusyMoving
}

func asInt64(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

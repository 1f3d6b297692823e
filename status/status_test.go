package status_test

import (
	"testing"

	"github.com/jpl-firestep/firestep/status"
)

func TestIsProcessingPartitionsBusyCodes(t *testing.T) {
	busy := map[status.Status]bool{
		status.Busy:       true,
		status.BusyMoving: true,
		status.BusyParsed: true,
		status.BusySetup:  true,
	}
	notBusy := []status.Status{
		status.OK, status.Empty, status.WaitIdle, status.WaitCancelled,
		status.UnrecognizedName, status.ValueRange, status.EStop,
	}
	for s := range busy {
		if !status.IsProcessing(s) {
			t.Errorf("expected %d to be processing", s)
		}
	}
	for _, s := range notBusy {
		if status.IsProcessing(s) {
			t.Errorf("expected %d to not be processing", s)
		}
	}
}

func TestStatusValuesMatchWireProtocol(t *testing.T) {
	// the host and firmware must agree on these exact integers
	cases := map[status.Status]int32{
		status.OK:            0,
		status.BusyParsed:    10,
		status.Busy:          11,
		status.BusyMoving:    12,
		status.BusySetup:     13,
		status.WaitIdle:      20,
		status.WaitCancelled: 26,
		status.Empty:         -1,
		status.JSONMem:       -118,
		status.StrokeNullError: -205,
		status.UnrecognizedName: -402,
		status.RangeError:    -412,
		status.EStop:         -900,
		status.LimitMax:      -905,
	}
	for s, want := range cases {
		if int32(s) != want {
			t.Errorf("status %v = %d, want %d", s, int32(s), want)
		}
	}
}

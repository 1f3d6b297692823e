package util_test

import (
	"testing"

	"github.com/jpl-firestep/firestep/util"
)

func TestClampHigh(t *testing.T) {
	var (
		low   = 0.
		high  = 10.
		input = 20.
	)
	clamped := util.Clamp(input, low, high)
	if clamped == input {
		t.Errorf("expected out of range value %f to be clipped to %f < x < %f, got %f", input, low, high, clamped)
	}
}

func TestClampLow(t *testing.T) {
	var (
		low   = 0.
		high  = 10.
		input = -1.
	)
	clamped := util.Clamp(input, low, high)
	if clamped == input {
		t.Errorf("expected out of range value %f to be clipped to %f < x < %f, got %f", input, low, high, clamped)
	}
}

func TestLimiterCheck(t *testing.T) {
	l := util.Limiter{Min: -100, Max: 100}
	if !l.Check(50) {
		t.Errorf("50 should be within [-100, 100]")
	}
	if l.Check(150) {
		t.Errorf("150 should be outside [-100, 100]")
	}
}

func TestLimiterClamp(t *testing.T) {
	l := util.Limiter{Min: -100, Max: 100}
	if got := l.Clamp(150); got != 100 {
		t.Errorf("Clamp(150) = %v, want 100", got)
	}
}

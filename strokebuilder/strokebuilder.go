// Package strokebuilder is the external collaborator that turns a
// target displacement into a stroke.Stroke: a straightforward
// trapezoidal (accelerate / cruise / decelerate) velocity-segment
// generator. The host's real-time planner is treated as a
// separately-specified component; this one is deliberately simple.
package strokebuilder

import (
	"math"

	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
	"github.com/jpl-firestep/firestep/stroke"
)

// Builder generates a Stroke for a straight-line move of up to four
// motor channels.
type Builder struct {
	VMax    int32   // peak steps/sec
	TvMax   float64 // seconds allotted to reach VMax
	MinSegs int16
	MaxSegs int16
}

// New returns a Builder with the given trapezoid parameters.
func New(vMax int32, tvMax float64, minSegs, maxSegs int16) *Builder {
	return &Builder{VMax: vMax, TvMax: tvMax, MinSegs: minSegs, MaxSegs: maxSegs}
}

// BuildLine fills dst with a trapezoidal velocity profile moving
// delta steps per channel, and returns the peak velocity reached.
// When neither MaxSegs nor MinSegs is set, the segment count grows (up
// to SegmentCount-1) until every segment fits the -127..127 wire range.
// Segment values are clamped to that range, so a displacement too large
// for the chosen segment count is not fully reached.
func (b *Builder) BuildLine(dst *stroke.Stroke, delta quad.T) (float64, status.Status) {
	dst.Clear()

	maxAbs := int32(0)
	for _, v := range delta.Value {
		av := v
		if av < 0 {
			av = -av
		}
		if av > maxAbs {
			maxAbs = av
		}
	}
	if maxAbs == 0 {
		return 0, status.StrokeNullError
	}

	segs := b.MaxSegs
	if segs <= 0 {
		segs = b.MinSegs
	}
	if segs <= 0 {
		segs = int16(clampInt(int(maxAbs/100), 4, stroke.SegmentCount-1))
		// grow the automatic count until the cruise segment's share of
		// maxAbs fits the -127..127 segment range
		for int(segs) < stroke.SegmentCount-1 {
			ramp := int(segs) / 3
			if ramp == 0 {
				ramp = 1
			}
			if float64(maxAbs)/float64(int(segs)-ramp+1) <= 127 {
				break
			}
			segs++
		}
	}
	if segs <= 0 {
		segs = 1
	}
	if int(segs) >= stroke.SegmentCount {
		return 0, status.StrokeMaxLen
	}

	weights := trapezoidWeights(int(segs))

	remaining := delta
	var written [4]int16
	for i := int16(0); i < segs; i++ {
		last := i == segs-1
		for ch := 0; ch < 4; ch++ {
			var v int32
			if last {
				v = remaining.Value[ch]
			} else {
				v = int32(float64(delta.Value[ch]) * weights[i])
			}
			if v < -127 {
				v = -127
			}
			if v > 127 {
				v = 127
			}
			dst.Seg[i].Value[ch] = int8(v)
			remaining.Value[ch] -= v
			written[ch]++
		}
	}
	dst.Length = segs

	planSeconds := b.TvMax
	if planSeconds <= 0 {
		planSeconds = float64(maxAbs) / math.Max(1, float64(b.VMax))
	}
	dst.SetTimePlanned(float32(planSeconds))

	vPeak := float64(b.VMax)
	return vPeak, status.OK
}

// trapezoidWeights returns n fractional weights summing to 1, shaped
// as a symmetric ramp-up/cruise/ramp-down trapezoid.
func trapezoidWeights(n int) []float64 {
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	ramp := n / 3
	if ramp == 0 {
		ramp = 1
	}
	total := 0.0
	for i := 0; i < n; i++ {
		var level float64
		switch {
		case i < ramp:
			level = float64(i+1) / float64(ramp)
		case i >= n-ramp:
			level = float64(n-i) / float64(ramp)
		default:
			level = 1
		}
		w[i] = level
		total += level
	}
	if total == 0 {
		return w
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

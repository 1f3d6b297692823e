// Package quad holds the 4-motor vector type shared by machine, stroke,
// and controller (one value per stepper motor channel). It is its own
// package so those three can use the same vector type without an import
// cycle between machine and stroke.
package quad

// T is a 4-vector, one value per motor channel (1..4).
type T struct {
	Value [4]int32
}

// Clear zeroes all four channels.
func (q *T) Clear() {
	q.Value = [4]int32{}
}

// Add returns the element-wise sum of q and o.
func (q T) Add(o T) T {
	var r T
	for i := range q.Value {
		r.Value[i] = q.Value[i] + o.Value[i]
	}
	return r
}

// AbsoluteValue returns the element-wise absolute value of q.
func (q T) AbsoluteValue() T {
	var r T
	for i, v := range q.Value {
		if v < 0 {
			v = -v
		}
		r.Value[i] = v
	}
	return r
}

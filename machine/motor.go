package machine

// Motor is one of the four stroke channels. Each motor pulses exactly
// one axis; several motors may point at the same axis (e.g. a gantry's
// two Y motors), which is why Motor is a thin indirection rather than
// an alias for Axis.
type Motor struct {
	AxisIndex AxisIndex // ma: which axis this motor channel drives
}

// NewMotor returns a motor with no axis mapped.
func NewMotor() Motor {
	return Motor{AxisIndex: IndexNone}
}

package controller

import (
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
)

var motorChildren = []string{"ma"}

// processMotor handles one motor group (group is '1'..'4') or its one
// recognized field, "ma" (motor-to-axis mapping).
func (c *Controller) processMotor(jcmd *jsoncmd.Command, obj map[string]interface{}, key string, group byte) status.Status {
	if len(key) == 1 {
		kid, st := expand(obj, key, motorChildren)
		if st != status.OK {
			return st
		}
		for _, k := range orderedKeys(motorChildren, kid) {
			if st := c.processMotor(jcmd, kid, k, group); st != status.OK {
				return st
			}
		}
		return status.OK
	}

	name := fieldName(key)
	if name != "ma" {
		return status.OK
	}

	iMotor := int(group - '1')
	if iMotor < 0 || iMotor >= machine.MotorCount {
		return status.MotorIndex
	}
	iAxis := c.Machine.MotorAxis(iMotor)
	st := field.ProcessInt(obj, key, &iAxis)
	c.Machine.SetMotorAxis(iMotor, iAxis)
	return st
}

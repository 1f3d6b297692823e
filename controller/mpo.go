package controller

import (
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
)

var mpoChildren = []string{"1", "2", "3", "4"}

// motorOfDigit resolves the motor index a trailing digit '1'..'4'
// names, or -1 if c isn't one of them.
func motorOfDigit(c byte) int {
	if c < '1' || c > '4' {
		return -1
	}
	return int(c - '1')
}

// processStepperPosition handles mpo: the current step position of
// whichever axis a motor channel (1..4) is mapped to.
func (c *Controller) processStepperPosition(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	if len(key) == 3 {
		kid, st := expand(obj, key, mpoChildren)
		if st != status.OK {
			return st
		}
		for _, k := range orderedKeys(mpoChildren, kid) {
			if st := c.processStepperPosition(jcmd, kid, k); st != status.OK {
				return st
			}
		}
		return status.OK
	}

	iMotor := motorOfDigit(key[len(key)-1])
	if iMotor < 0 {
		return jcmd.SetError(status.NoMotor, key)
	}
	iAxis := c.Machine.MotorAxis(iMotor)
	if iAxis == machine.IndexNone {
		return jcmd.SetError(status.NoMotor, key)
	}
	return field.ProcessInt(obj, key, &c.Machine.Axes[iAxis].Position)
}

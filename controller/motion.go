package controller

import (
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
)

var homeChildren = []string{"1", "2", "3", "4"}

// processHome handles "ho" across the two heartbeats a home cycle
// takes: the first call (jcmd freshly BUSY_PARSED) primes each named
// motor's axis to home and arms Homing; the continuation call (jcmd
// already BUSY_MOVING) actually walks each armed axis to its home
// position.
func (c *Controller) processHome(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	switch jcmd.GetStatus() {
	case status.BusyParsed:
		return c.initializeHome(jcmd, obj, key)
	case status.BusyMoving:
		return c.runHome()
	default:
		return jcmd.SetError(status.State, key)
	}
}

func (c *Controller) initializeHome(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	var st status.Status
	if key == "ho" {
		kid, kst := expand(obj, key, homeChildren)
		if kst != status.OK {
			return kst
		}
		for _, k := range orderedKeys(homeChildren, kid) {
			st = c.initializeHome(jcmd, kid, k)
			if st != status.BusyMoving {
				return st
			}
		}
	} else {
		iMotor := motorOfDigit(key[len(key)-1])
		if iMotor < 0 {
			return jcmd.SetError(status.NoMotor, key)
		}
		iAxis := c.Machine.MotorAxis(iMotor)
		if iAxis == machine.IndexNone {
			return jcmd.SetError(status.NoMotor, key)
		}
		st = c.processHomeField(obj, key, iAxis)
	}
	if st != status.OK {
		return st
	}
	return status.BusyMoving
}

// processHomeField stores an assigned home target, then, whether the
// field was queried or assigned, arms an enabled axis to home and
// echoes its home target; a disabled axis is disarmed and its current
// position is echoed instead.
func (c *Controller) processHomeField(obj map[string]interface{}, key string, iAxis machine.AxisIndex) status.Status {
	axis := &c.Machine.Axes[iAxis]
	st := field.ProcessInt(obj, key, &axis.Home)
	if axis.IsEnabled() {
		obj[key] = int64(axis.Home)
		axis.Homing = true
	} else {
		obj[key] = int64(axis.Position)
		axis.Homing = false
	}
	return st
}

func (c *Controller) runHome() status.Status {
	for i := range c.Machine.Axes {
		if !c.Machine.Axes[i].Homing {
			continue
		}
		if st := c.Machine.Home(machine.AxisIndex(i)); st != status.OK {
			return st
		}
	}
	return status.OK
}

var moveMotorKeys = []string{"1", "2", "3", "4"}

// processMove handles "mov": the first call parses the per-motor step
// counts and step rate into the Controller's transient move/stepRate
// fields, the continuation call executes the move in one shot. The
// step counts are relative: they are added to each axis's position by
// Machine.Pulse, not treated as absolute targets, and stepRate does
// not pace the pulses.
func (c *Controller) processMove(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	switch jcmd.GetStatus() {
	case status.BusyParsed:
		return c.initializeMove(jcmd, obj, key)
	case status.BusyMoving:
		return c.runMove()
	default:
		return jcmd.SetError(status.State, key)
	}
}

func (c *Controller) initializeMove(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	var st status.Status
	if key == "mov" {
		kid, ok := obj[key].(map[string]interface{})
		if !ok {
			return status.JSONObject
		}
		c.move = quad.T{}
		c.stepRate = 0
		for _, k := range orderedKeys(append([]string{"sr"}, moveMotorKeys...), kid) {
			st = c.initializeMove(jcmd, kid, k)
			if st != status.BusyMoving {
				return st
			}
		}
	} else if key == "sr" {
		st = field.ProcessInt(obj, key, &c.stepRate)
	} else {
		iMotor := motorOfDigit(key[len(key)-1])
		if iMotor < 0 {
			return jcmd.SetError(status.NoMotor, key)
		}
		st = field.ProcessInt(obj, key, &c.move.Value[iMotor])
	}
	if st != status.OK {
		return st
	}
	return status.BusyMoving
}

// runMove executes the parsed move directly, one motor channel at a
// time, through Machine.Pulse. The original's STATUS_STATE branch for
// "neither BUSY_PARSED nor BUSY_MOVING" is unreachable here too: mov
// is only ever dispatched while jcmd carries one of those two
// statuses (the heartbeat loop in package thread calls
// Controller.Process only while a command is processing), so runMove
// is never entered from anywhere else.
func (c *Controller) runMove() status.Status {
	return c.Machine.Pulse(c.move)
}

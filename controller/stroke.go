package controller

import (
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/status"
)

// processStroke handles "dvs": the first call initializes the
// machine's Stroke workspace from the request object, the
// continuation call traverses it one segment per heartbeat.
func (c *Controller) processStroke(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	kid, ok := obj[key].(map[string]interface{})
	if !ok {
		return status.JSONStrokeError
	}

	switch jcmd.GetStatus() {
	case status.BusyParsed:
		st := c.Machine.Stroke.Initialize(kid)
		if st == status.BusyMoving {
			c.Machine.Stroke.Start(c.Machine.ThreadClock)
		}
		return st
	case status.BusyMoving:
		if c.Machine.Stroke.CurSeg >= c.Machine.Stroke.Length {
			return status.OK
		}
		st := c.Machine.Stroke.Traverse(c.Machine.ThreadClock, c.Machine)
		pos := c.Machine.Stroke.Position()
		for k := range kid {
			iMotor := motorOfDigit(k[len(k)-1])
			if iMotor < 0 {
				continue
			}
			kid[k] = int64(pos.Value[iMotor])
		}
		if c.Machine.Stroke.CurSeg >= c.Machine.Stroke.Length {
			return status.OK
		}
		return st
	default:
		return status.JSONStrokeError
	}
}

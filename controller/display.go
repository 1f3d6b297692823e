package controller

import (
	"strings"

	"github.com/jpl-firestep/firestep/display"
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/status"
)

var dpyChildren = []string{"cb", "cg", "cr", "dl", "ds"}

// processDisplay handles dpy and its five fields. dpy.ds is special:
// on assignment it also maps the new display status onto a WAIT_*
// controller status, so the host's next poll reflects what the panel
// is now asking the operator to do.
func (c *Controller) processDisplay(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	if key == "dpy" {
		kid, st := expand(obj, key, dpyChildren)
		if st != status.OK {
			return st
		}
		for _, k := range orderedKeys(dpyChildren, kid) {
			if st := c.processDisplay(jcmd, kid, k); st != status.OK {
				return st
			}
		}
		return status.OK
	}

	sink := &c.Machine.Display
	name := strings.TrimPrefix(key, "dpy")
	switch name {
	case "cb":
		return field.ProcessInt(obj, key, &sink.CameraB)
	case "cg":
		return field.ProcessInt(obj, key, &sink.CameraG)
	case "cr":
		return field.ProcessInt(obj, key, &sink.CameraR)
	case "dl":
		return field.ProcessInt(obj, key, &sink.Level)
	case "ds":
		isAssignment := !field.IsQuery(obj, key)
		st := field.ProcessInt(obj, key, &sink.Status)
		if !isAssignment {
			return st
		}
		switch sink.Status {
		case display.WaitIdle:
			return status.WaitIdle
		case display.WaitError:
			return status.WaitError
		case display.WaitOperator:
			return status.WaitOperator
		case display.BusyMoving:
			return status.WaitMoving
		case display.Busy:
			return status.WaitBusy
		case display.WaitCamera:
			return status.WaitCamera
		default:
			return st
		}
	default:
		return jcmd.SetError(status.UnrecognizedName, key)
	}
}

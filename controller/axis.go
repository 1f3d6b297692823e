package controller

import (
	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
)

var axisChildren = []string{
	"dh", "en", "ho", "is", "lb", "lm", "ln", "mi",
	"pd", "pe", "pm", "pn", "po", "ps", "sa", "sd", "tm", "tn", "ud",
}

// processAxis handles one axis group (group is 'x'..'c') or one of its
// 19 recognized field keys.
func (c *Controller) processAxis(jcmd *jsoncmd.Command, obj map[string]interface{}, key string, group byte) status.Status {
	iAxis := machine.AxisOfName(group)
	if iAxis == machine.IndexNone {
		return status.AxisError
	}
	axis := &c.Machine.Axes[iAxis]

	if len(key) == 1 {
		kid, st := expand(obj, key, axisChildren)
		if st != status.OK {
			return st
		}
		for _, k := range orderedKeys(axisChildren, kid) {
			if st := c.processAxis(jcmd, kid, k, group); st != status.OK {
				return st
			}
		}
		return status.OK
	}

	name := fieldName(key)
	switch name {
	case "en":
		active := axis.IsEnabled()
		st := field.ProcessBool(obj, key, &active)
		if st != status.OK {
			return st
		}
		axis.Enable(c.Machine.Pins, active)
		newVal := axis.IsEnabled()
		obj[key] = newVal
		return status.OK
	case "dh":
		return field.ProcessBool(obj, key, &axis.DirHigh)
	case "ho":
		return field.ProcessInt(obj, key, &axis.Home)
	case "is":
		return field.ProcessInt(obj, key, &axis.IdleSnooze)
	case "lb":
		return field.ProcessInt(obj, key, &axis.LatchBackoff)
	case "lm":
		axis.ReadAtMax(c.Machine.Pins, c.Machine.InvertLim)
		return field.ProcessBool(obj, key, &axis.AtMax)
	case "ln":
		axis.ReadAtMin(c.Machine.Pins, c.Machine.InvertLim)
		return field.ProcessBool(obj, key, &axis.AtMin)
	case "mi":
		st := field.ProcessInt(obj, key, &axis.Microsteps)
		if axis.Microsteps < 1 {
			axis.Microsteps = 1
			return status.JSONPositive1
		}
		return st
	case "pd":
		return c.processPin(obj, key, &axis.PinDir, gpio.Output, gpio.Low)
	case "pe":
		return c.processPin(obj, key, &axis.PinEnable, gpio.Output, gpio.High)
	case "pm":
		return c.processPin(obj, key, &axis.PinMax, gpio.Input, gpio.Low)
	case "pn":
		return c.processPin(obj, key, &axis.PinMin, gpio.Input, gpio.Low)
	case "po":
		return field.ProcessInt(obj, key, &axis.Position)
	case "ps":
		return c.processPin(obj, key, &axis.PinStep, gpio.Output, gpio.Low)
	case "sa":
		return field.ProcessFloat32(obj, key, &axis.StepAngle)
	case "sd":
		return field.ProcessInt(obj, key, &axis.SearchDelay)
	case "tm":
		return field.ProcessInt(obj, key, &axis.TravelMax)
	case "tn":
		return field.ProcessInt(obj, key, &axis.TravelMin)
	case "ud":
		return field.ProcessInt(obj, key, &axis.UsDelay)
	default:
		return jcmd.SetError(status.UnrecognizedName, key)
	}
}

// fieldName strips a one-letter axis/motor group prefix from a
// flattened root-level key ("xen" -> "en"); a key that is already
// exactly two letters (reached from inside an expanded group object)
// passes through unchanged.
func fieldName(key string) string {
	if len(key) == 2 {
		return key
	}
	if len(key) > 2 {
		return key[1:]
	}
	return key
}

// processPin reassigns a pin field: it always applies the new pin
// number to the gpio bank (matching the original's unconditional
// machine.setPin side effect), then reports the assignment/query
// status for the field itself.
func (c *Controller) processPin(obj map[string]interface{}, key string, pin *gpio.Pin, mode gpio.Mode, initial gpio.Level) status.Status {
	newPin := *pin
	st := field.ProcessInt(obj, key, &newPin)
	*pin = newPin
	c.Machine.Pins.SetMode(*pin, mode, initial)
	return st
}

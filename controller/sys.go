package controller

import (
	"strings"

	"github.com/jpl-firestep/firestep/field"
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/status"
)

var sysChildren = []string{"cc", "fr", "jp", "lh", "lp", "pc", "tc", "v"}

// processSys handles sys and its eight fields. sys.pc calls
// SetPinConfig only on assignment; querying "pc" echoes the current
// pin configuration without any side effect, same as every other
// field.
func (c *Controller) processSys(jcmd *jsoncmd.Command, obj map[string]interface{}, key string) status.Status {
	if key == "sys" {
		kid, st := expand(obj, key, sysChildren)
		if st != status.OK {
			return st
		}
		for _, k := range orderedKeys(sysChildren, kid) {
			if st := c.processSys(jcmd, kid, k); st != status.OK {
				return st
			}
		}
		return status.OK
	}

	name := strings.TrimPrefix(key, "sys")
	switch name {
	case "cc":
		obj[key] = int64(jcmd.LineCRC)
		return status.OK
	case "fr":
		obj[key] = int64(machine.FreeRAM())
		return status.OK
	case "jp":
		return field.ProcessBool(obj, key, &c.Machine.JSONPrettyPrint)
	case "lh":
		return field.ProcessBool(obj, key, &c.Machine.InvertLim)
	case "lp":
		return field.ProcessInt(obj, key, &c.NLoops)
	case "pc":
		wasQuery := field.IsQuery(obj, key)
		pc := c.Machine.GetPinConfig()
		st := field.ProcessInt(obj, key, &pc)
		if !wasQuery {
			c.Machine.SetPinConfig(pc)
		}
		return st
	case "tc":
		obj[key] = int64(c.Machine.ThreadClock)
		return status.OK
	case "v":
		obj[key] = versionValue
		return status.OK
	default:
		return jcmd.SetError(status.UnrecognizedName, key)
	}
}

// versionValue mirrors VERSION_MAJOR*100 + VERSION_MINOR + VERSION_PATCH/100.0.
const versionValue = 1*100 + 5 + 0/100.0

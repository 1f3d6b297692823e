// Package controller dispatches a parsed command's root keys onto the
// machine: one JSON object key per hardware concern (sys, dpy, an
// axis letter, a motor number, a move, a home, a stroke, a test).
package controller

import (
	"github.com/jpl-firestep/firestep/jsoncmd"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/quad"
	"github.com/jpl-firestep/firestep/status"
)

// Controller holds the transient state one in-flight "mov" command
// needs across heartbeats. It never owns the Machine; JsonCommand and
// Machine both outlive any one Controller call.
type Controller struct {
	Machine *machine.Machine

	LastProcessed machine.Ticks
	NLoops        int32

	move     quad.T
	stepRate int32

	selfTest phSelfTest
}

// New returns a Controller dispatching onto m.
func New(m *machine.Machine) *Controller {
	c := &Controller{Machine: m}
	c.selfTest = newPHSelfTest(m)
	return c
}

// Process dispatches every root key of jcmd's request tree, in the
// order the host sent them, short-circuiting on the first negative
// (error) status. The final status is recorded on jcmd; callers
// should send a response once status.IsProcessing reports false.
func (c *Controller) Process(jcmd *jsoncmd.Command) status.Status {
	root := jcmd.Request
	st := status.OK

	for _, key := range jcmd.RequestKeys {
		if st < 0 {
			break
		}
		switch {
		case key == "dvs":
			st = c.processStroke(jcmd, root, key)
		case key == "mov":
			st = c.processMove(jcmd, root, key)
		case hasPrefix(key, "ho"):
			st = c.processHome(jcmd, root, key)
		case hasPrefix(key, "tst"):
			st = c.processTest(jcmd, root, key)
		case hasPrefix(key, "sys"):
			st = c.processSys(jcmd, root, key)
		case hasPrefix(key, "dpy"):
			st = c.processDisplay(jcmd, root, key)
		case hasPrefix(key, "mpo"):
			st = c.processStepperPosition(jcmd, root, key)
		default:
			switch key[0] {
			case '1', '2', '3', '4':
				st = c.processMotor(jcmd, root, key, key[0])
			case 'x', 'y', 'z', 'a', 'b', 'c':
				st = c.processAxis(jcmd, root, key, key[0])
			default:
				st = jcmd.SetError(status.UnrecognizedName, key)
			}
		}
	}

	jcmd.SetStatus(st)
	c.LastProcessed = c.Machine.ThreadClock
	return st
}

func hasPrefix(key, prefix string) bool {
	return len(key) >= len(prefix) && key[:len(prefix)] == prefix
}

// expand implements the recursive "empty string queries every child
// key" protocol: if obj[key] is the query sentinel, it is replaced
// with a fresh object whose children are primed to the same sentinel.
// It returns the (possibly just-created) child object.
func expand(obj map[string]interface{}, key string, children []string) (map[string]interface{}, status.Status) {
	if isQuery(obj, key) {
		node := make(map[string]interface{}, len(children))
		for _, c := range children {
			node[c] = ""
		}
		obj[key] = node
	}
	kid, ok := obj[key].(map[string]interface{})
	if !ok {
		return nil, status.JSONObject
	}
	return kid, status.OK
}

func isQuery(obj map[string]interface{}, key string) bool {
	raw, ok := obj[key]
	if !ok {
		return false
	}
	s, isStr := raw.(string)
	return isStr && s == ""
}

// orderedKeys returns kid's keys. Keys that appear in children come
// first, in the deterministic order of that literal list (not Go's map
// iteration); it is used both on objects synthesized by expand and on
// host-supplied nested objects such as mov's.
func orderedKeys(children []string, kid map[string]interface{}) []string {
	out := make([]string, 0, len(kid))
	for _, c := range children {
		if _, ok := kid[c]; ok {
			out = append(out, c)
		}
	}
	if len(out) == len(kid) {
		return out
	}
	// a host-supplied object may carry a different key set than the
	// canonical children list (e.g. a partial assignment); fall back
	// to whatever is present, in children-list order first.
	seen := make(map[string]bool, len(out))
	for _, k := range out {
		seen[k] = true
	}
	for k := range kid {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

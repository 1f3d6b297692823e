// Package httpstatus exposes a read-only HTTP mirror of a running
// machine: sys-level counters and per-axis/per-motor snapshots, for
// dashboards and monitoring that should never have to speak the
// serial JSON protocol themselves.
package httpstatus

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/jpl-firestep/firestep/controller"
	"github.com/jpl-firestep/firestep/machine"
	"github.com/jpl-firestep/firestep/server"
	"github.com/jpl-firestep/firestep/server/middleware/locker"
)

// Status wraps a Controller with the HTTP introspection routes built
// on top of it. Every handler only reads the machine; Locker lets an
// operator freeze the mirror (423) while driving the board directly
// over serial, so a dashboard poller doesn't race a hand-typed command.
type Status struct {
	Controller *controller.Controller
	Locker     *locker.Locker
}

// New returns a Status serving snapshots of ctl's machine, unlocked.
func New(ctl *controller.Controller) *Status {
	return &Status{Controller: ctl, Locker: locker.New()}
}

// sysSnapshot is the payload served at GET /sys.
type sysSnapshot struct {
	FreeRAM       uint32        `json:"freeRam"`
	ThreadClock   machine.Ticks `json:"threadClock"`
	LastProcessed machine.Ticks `json:"lastProcessed"`
	NLoops        int32         `json:"nLoops"`
	PrettyJSON    bool          `json:"prettyJson"`
	InvertLimits  bool          `json:"invertLimits"`
}

// axisSnapshot is the payload served at GET /axis/{axis}.
type axisSnapshot struct {
	Name       string           `json:"name"`
	Enabled    bool             `json:"enabled"`
	Position   machine.StepCoord `json:"position"`
	Home       machine.StepCoord `json:"home"`
	TravelMin  machine.StepCoord `json:"travelMin"`
	TravelMax  machine.StepCoord `json:"travelMax"`
	AtMaxLimit bool             `json:"atMaxLimit"`
	AtMinLimit bool             `json:"atMinLimit"`
	Homing     bool             `json:"homing"`
}

// motorSnapshot is the payload served at GET /motor/{id}.
type motorSnapshot struct {
	ID   int    `json:"id"`
	Axis string `json:"axis"`
}

var axisNames = "xyzabc"

// BindRoutes mounts this Status's routes onto r, gated by Locker so
// "/lock" itself (and nothing else) is always reachable.
func (s *Status) BindRoutes(r chi.Router) {
	rt := server.RouteTable{
		{Method: http.MethodGet, Path: "/sys"}:       s.handleSys,
		{Method: http.MethodGet, Path: "/axis/{axis}"}: s.handleAxis,
		{Method: http.MethodGet, Path: "/motor/{id}"}:  s.handleMotor,
	}
	locker.Inject(rt, s.Locker)
	rt[server.MethodPath{Method: http.MethodGet, Path: "/endpoints"}] = rt.EndpointsHTTP()

	r.Use(s.Locker.Check)
	for mp, h := range rt {
		r.Method(mp.Method, mp.Path, h)
	}
}

// Router builds a fresh chi.Mux with this Status's routes bound,
// ready to be passed to http.ListenAndServe.
func (s *Status) Router() chi.Router {
	r := chi.NewRouter()
	s.BindRoutes(r)
	return r
}

func (s *Status) handleSys(w http.ResponseWriter, r *http.Request) {
	m := s.Controller.Machine
	server.WriteJSON(w, sysSnapshot{
		FreeRAM:       machine.FreeRAM(),
		ThreadClock:   m.ThreadClock,
		LastProcessed: s.Controller.LastProcessed,
		NLoops:        s.Controller.NLoops,
		PrettyJSON:    m.JSONPrettyPrint,
		InvertLimits:  m.InvertLim,
	})
}

func (s *Status) handleAxis(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "axis")
	if len(name) != 1 {
		http.Error(w, "axis must be a single letter (x,y,z,a,b,c)", http.StatusBadRequest)
		return
	}
	iAxis := machine.AxisOfName(name[0])
	if iAxis == machine.IndexNone {
		http.Error(w, "unrecognized axis "+name, http.StatusNotFound)
		return
	}
	axis := &s.Controller.Machine.Axes[iAxis]
	server.WriteJSON(w, axisSnapshot{
		Name:       string(axisNames[iAxis]),
		Enabled:    axis.IsEnabled(),
		Position:   axis.Position,
		Home:       axis.Home,
		TravelMin:  axis.TravelMin,
		TravelMax:  axis.TravelMax,
		AtMaxLimit: axis.AtMax,
		AtMinLimit: axis.AtMin,
		Homing:     axis.Homing,
	})
}

func (s *Status) handleMotor(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if len(idStr) != 1 || idStr[0] < '1' || idStr[0] > '4' {
		http.Error(w, "motor id must be 1-4", http.StatusBadRequest)
		return
	}
	iMotor := int(idStr[0] - '1')
	iAxis := s.Controller.Machine.MotorAxis(iMotor)
	axisName := "-"
	if iAxis != machine.IndexNone {
		axisName = string(axisNames[iAxis])
	}
	server.WriteJSON(w, motorSnapshot{ID: iMotor + 1, Axis: axisName})
}

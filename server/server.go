// Package server contains the small HTTP response helpers shared by
// httpstatus: typed JSON envelopes and a route table keyed by method
// and path, independent of which mux binds them.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// IntT is a struct with a single Int field.
type IntT struct {
	Int int `json:"int"`
}

// FloatT is a struct with a single F64 field.
type FloatT struct {
	F64 float64 `json:"f64"`
}

// BoolT is a struct with a single Bool field.
type BoolT struct {
	Bool bool `json:"bool"`
}

// StrT is a struct with a single Str field.
type StrT struct {
	Str string `json:"str"`
}

// WriteJSON encodes v as the HTTP response body, or writes a 500 if
// encoding fails.
func WriteJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fstr := fmt.Sprintf("error encoding %+v to JSON, %q", v, err)
		http.Error(w, fstr, http.StatusInternalServerError)
	}
}

// GetInt calls fcn and writes its result as {"int": value}.
func GetInt(fcn func() (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSON(w, IntT{Int: i})
	}
}

// GetFloat calls fcn and writes its result as {"f64": value}.
func GetFloat(fcn func() (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSON(w, FloatT{F64: f})
	}
}

// GetBool calls fcn and writes its result as {"bool": value}.
func GetBool(fcn func() (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSON(w, BoolT{Bool: b})
	}
}

// MethodPath identifies a route independent of the router backend
// that eventually binds it.
type MethodPath struct {
	Method, Path string
}

// RouteTable maps a method+path to the handler that serves it.
type RouteTable map[MethodPath]http.HandlerFunc

// Endpoints returns the sorted "METHOD path" strings in the table,
// used by the /endpoints introspection route.
func (rt RouteTable) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for mp := range rt {
		routes = append(routes, mp.Method+" "+mp.Path)
	}
	sort.Strings(routes)
	return routes
}

// EndpointsHTTP writes rt's endpoint list as {"str": "METHOD path\n..."}.
func (rt RouteTable) EndpointsHTTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpts := rt.Endpoints()
		joined := ""
		for i, e := range endpts {
			if i > 0 {
				joined += "\n"
			}
			joined += e
		}
		WriteJSON(w, StrT{Str: joined})
	}
}

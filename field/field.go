// Package field implements the generic per-field query/assignment
// protocol shared by every handler in controller: a JSON object value
// that is the empty string is a query (echo the field's current value),
// any other value is an assignment (parse it into the field, range-check
// for narrowing loss, and echo the stored value back).
//
// The original firmware used a C++ template, processField<TF, TJ>,
// specialized per (field type, JSON type) pair. Go generics give the
// same effect without per-pair monomorphization: Integer and Bool are
// handled by one function each, keyed by the field's Go type.
package field

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/jpl-firestep/firestep/status"
)

// Integer is the set of field types recognized by ProcessInt: the small
// integers, 8-bit pin numbers, and 32-bit signed values spec.md §4.2
// groups together as one encoding pair.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// IsQuery reports whether the value at key in obj is the query sentinel:
// an empty string. A missing key is not a query.
func IsQuery(obj map[string]interface{}, key string) bool {
	raw, ok := obj[key]
	if !ok {
		return false
	}
	s, isStr := raw.(string)
	return isStr && s == ""
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// rangeOf returns the representable interval of T, used to detect
// narrowing loss on assignment. This replaces the original's
// (float)field != value round-trip trick (spec.md §9) with an explicit
// range check.
func rangeOf[T Integer]() (lo, hi float64) {
	var z T
	switch reflect.TypeOf(z).Kind() {
	case reflect.Int8:
		return math.MinInt8, math.MaxInt8
	case reflect.Int16:
		return math.MinInt16, math.MaxInt16
	case reflect.Int32:
		return math.MinInt32, math.MaxInt32
	case reflect.Int64, reflect.Int:
		return -(1 << 53), 1 << 53 // float64 mantissa bound, not the type's true range
	case reflect.Uint8:
		return 0, math.MaxUint8
	case reflect.Uint16:
		return 0, math.MaxUint16
	case reflect.Uint32:
		return 0, math.MaxUint32
	case reflect.Uint64, reflect.Uint:
		return 0, 1 << 53
	default:
		return 0, 0
	}
}

// ProcessInt implements the query/assignment protocol for any integer
// field (small integers, pin numbers, 32-bit signed values). On query,
// the field's current value is echoed into obj[key]. On assignment, the
// JSON value is parsed and range-checked against T's representable
// interval; out-of-range values return status.ValueRange and the field
// is left unmodified.
func ProcessInt[T Integer](obj map[string]interface{}, key string, fld *T) status.Status {
	raw, ok := obj[key]
	if !ok {
		return status.FieldError
	}
	if IsQuery(obj, key) {
		obj[key] = int64(*fld)
		return status.OK
	}
	v, ok := toFloat(raw)
	if !ok {
		return status.FieldError
	}
	lo, hi := rangeOf[T]()
	if v < lo || v > hi || v != math.Trunc(v) {
		return status.ValueRange
	}
	*fld = T(int64(v))
	obj[key] = int64(*fld)
	return status.OK
}

// ProcessBool implements the query/assignment protocol for boolean
// fields.
func ProcessBool(obj map[string]interface{}, key string, fld *bool) status.Status {
	raw, ok := obj[key]
	if !ok {
		return status.FieldError
	}
	if IsQuery(obj, key) {
		obj[key] = *fld
		return status.OK
	}
	b, ok := raw.(bool)
	if !ok {
		return status.FieldError
	}
	*fld = b
	obj[key] = *fld
	return status.OK
}

// ProcessFloat64 implements the query/assignment protocol for PH5TYPE
// fields that remain full width (no narrowing possible).
func ProcessFloat64(obj map[string]interface{}, key string, fld *float64) status.Status {
	raw, ok := obj[key]
	if !ok {
		return status.FieldError
	}
	if IsQuery(obj, key) {
		obj[key] = *fld
		return status.OK
	}
	v, ok := toFloat(raw)
	if !ok {
		return status.FieldError
	}
	*fld = v
	obj[key] = *fld
	return status.OK
}

// ProcessFloat32 implements the query/assignment protocol for fields
// narrowed from the JSON double into a 32-bit float (axis.stepAngle is
// the one field in the original that does this). Narrowing loss is
// detected with an explicit range check against float32's representable
// interval; a value inside it is stored rounded to the nearest float32.
func ProcessFloat32(obj map[string]interface{}, key string, fld *float32) status.Status {
	raw, ok := obj[key]
	if !ok {
		return status.FieldError
	}
	if IsQuery(obj, key) {
		obj[key] = float64(*fld)
		return status.OK
	}
	v, ok := toFloat(raw)
	if !ok {
		return status.FieldError
	}
	if math.Abs(v) > math.MaxFloat32 {
		return status.ValueRange
	}
	nf := float32(v)
	*fld = nf
	obj[key] = float64(*fld)
	return status.OK
}

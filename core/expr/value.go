// Package expr - Sandboxed transformation-expression evaluation
package expr

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the runtime type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindDate
)

// String returns the kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is the single runtime type flowing through an evaluation. Numbers
// are float64 so arithmetic follows the conventions transformation authors
// expect from the builder UI (including NaN on failed parses).
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date wraps a timestamp.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind returns the value's runtime kind.
func (v Value) Kind() Kind { return v.kind }

// IsTruthy reports the value's boolean interpretation: false, zero, NaN,
// the empty string and null are falsy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	case KindDate:
		return true
	default:
		return false
	}
}

// AsString coerces the value to its string form.
func (v Value) AsString() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindDate:
		return v.t.UTC().Format(isoLayout)
	default:
		return "null"
	}
}

// AsNumber coerces the value to a number; uncoercible values become NaN.
func (v Value) AsNumber() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNumber:
		return v.n
	case KindString:
		s := strings.TrimSpace(v.s)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case KindDate:
		return float64(v.t.UnixMilli())
	default:
		return 0
	}
}

// Time returns the wrapped timestamp; ok is false for non-date values.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindDate
}

// equals implements loose equality: same-kind values compare directly,
// mixed string/number comparisons coerce to number.
func (v Value) equals(o Value) bool {
	if v.kind == o.kind {
		switch v.kind {
		case KindBool:
			return v.b == o.b
		case KindNumber:
			return v.n == o.n
		case KindString:
			return v.s == o.s
		case KindDate:
			return v.t.Equal(o.t)
		default:
			return true
		}
	}
	return v.AsNumber() == o.AsNumber()
}

// isoLayout renders millisecond-precision UTC timestamps, the format the
// transformation surface exposes as toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

package operator

import (
	"strconv"
	"strings"
)

// ValueType represents the type of values that flow through operators.
type ValueType string

const (
	NUMBER_VALUE ValueType = "NUMBER"
	TUPLE_VALUE  ValueType = "TUPLE"
	ROLL_VALUE   ValueType = "ROLL"
)

// Value is any operand or result of a dicelang operator: a plain number,
// an explicit list of die sides, or a set of rolled dice.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Number is a scalar value. Comparison and boolean operators also produce
// Numbers, using 1 and 0 for true and false.
type Number float64

func (n Number) Type() ValueType { return NUMBER_VALUE }
func (n Number) Inspect() string { return FormatNumber(float64(n)) }

// Tuple is an explicit list of die side values, like [1, 3, 5] or the
// fudge die (-1, 0, 1).
type Tuple []float64

func (t Tuple) Type() ValueType { return TUPLE_VALUE }

func (t Tuple) Inspect() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = FormatNumber(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatNumber renders a float the way roll results are displayed:
// integral values without a decimal point, everything else in the
// shortest exact form (so an average roll shows "7.5").
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Sum collapses a value to a single scalar: a Roll sums its active rolls,
// a Tuple sums its elements, and a Number is returned unchanged.
func Sum(v Value) float64 {
	switch val := v.(type) {
	case Number:
		return float64(val)
	case Tuple:
		total := 0.0
		for _, x := range val {
			total += x
		}
		return total
	case *Roll:
		return val.Sum()
	}
	return 0
}

package operator

import (
	"math"

	"github.com/ewens/dicelang/pkg/dicelang/errors"
)

// MaxDice caps how many dice a single roll operator may produce, so a
// typo like 999999999d6 fails instead of exhausting memory.
const MaxDice = 10000

func typeName(v Value) string {
	if v == nil {
		return "nothing"
	}
	return string(v.Type())
}

func asNumber(op string, v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, errors.New("EVAL-0004", map[string]any{
			"Operator": op, "Expected": "a number", "Got": typeName(v),
		})
	}
	return float64(n), nil
}

func asInt(op string, v Value) (int, error) {
	n, err := asNumber(op, v)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, errors.New("EVAL-0004", map[string]any{
			"Operator": op, "Expected": "an integer", "Got": FormatNumber(n),
		})
	}
	return int(n), nil
}

func asRoll(op string, v Value) (*Roll, error) {
	r, ok := v.(*Roll)
	if !ok {
		return nil, errors.New("EVAL-0004", map[string]any{
			"Operator": op, "Expected": "a roll", "Got": typeName(v),
		})
	}
	return r, nil
}

// singleDie rolls one die. Given a Number it returns a uniform value in
// [1, sides]; given a Tuple it picks one of the explicit sides; given a
// Roll (which happens in expressions like 2d(1d4)) it uses the sum of
// that roll as the side count.
func singleDie(sides Value) (float64, error) {
	switch die := sides.(type) {
	case Number:
		n := float64(die)
		if n != math.Trunc(n) || n < 1 {
			return 0, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		return float64(rng.UniformInt(1, int(n))), nil
	case Tuple:
		if len(die) == 0 {
			return 0, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		return rng.Choice(die), nil
	case *Roll:
		total := die.Sum()
		if total != math.Trunc(total) || total < 1 {
			return 0, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		return float64(rng.UniformInt(1, int(total))), nil
	}
	return 0, errors.New("EVAL-0007", map[string]any{"Sides": typeName(sides)})
}

func rollCount(op string, left Value) (int, error) {
	count, err := asInt(op, left)
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, errors.New("EVAL-0004", map[string]any{
			"Operator": op, "Expected": "a non-negative count", "Got": FormatNumber(float64(count)),
		})
	}
	if count > MaxDice {
		return 0, errors.New("EVAL-0006", map[string]any{"Count": count, "Limit": MaxDice})
	}
	return count, nil
}

// rollBasic rolls count dice of the given sides.
func rollBasic(left, right Value) (Value, error) {
	count, err := rollCount("d", left)
	if err != nil {
		return nil, err
	}
	rolls := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		v, err := singleDie(right)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, v)
	}
	return NewRoll(rolls, right), nil
}

// rollCritical rolls double the requested number of dice.
func rollCritical(left, right Value) (Value, error) {
	count, err := rollCount("dc", left)
	if err != nil {
		return nil, err
	}
	rolls := make([]float64, 0, 2*count)
	for i := 0; i < 2*count; i++ {
		v, err := singleDie(right)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, v)
	}
	return NewRoll(rolls, right), nil
}

// rollAverage yields the die's average on every roll, which has a .5 in
// it for the usual even-sided dice.
func rollAverage(left, right Value) (Value, error) {
	count, err := rollCount("da", left)
	if err != nil {
		return nil, err
	}
	var avg float64
	switch die := right.(type) {
	case Number:
		avg = (float64(die) + 1) / 2
	case Tuple:
		if len(die) == 0 {
			return nil, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		avg = Sum(die) / float64(len(die))
	case *Roll:
		if die.Len() == 0 {
			return nil, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		avg = die.Sum() / float64(die.Len())
	default:
		return nil, errors.New("EVAL-0007", map[string]any{"Sides": typeName(right)})
	}
	rolls := make([]float64, count)
	for i := range rolls {
		rolls[i] = avg
	}
	return NewRoll(rolls, right), nil
}

// rollMax yields the maximum possible value on every roll. For an
// explicit side list or a nested roll, that is the highest listed or
// previously-rolled value rather than a side count.
func rollMax(left, right Value) (Value, error) {
	count, err := rollCount("dm", left)
	if err != nil {
		return nil, err
	}
	var top float64
	switch die := right.(type) {
	case Number:
		top = float64(die)
	case Tuple:
		if len(die) == 0 {
			return nil, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		top = maxOf(die)
	case *Roll:
		if die.Len() == 0 {
			return nil, errors.New("EVAL-0007", map[string]any{"Sides": die.Inspect()})
		}
		top = maxOf(die.Rolls())
	default:
		return nil, errors.New("EVAL-0007", map[string]any{"Sides": typeName(right)})
	}
	rolls := make([]float64, count)
	for i := range rolls {
		rolls[i] = top
	}
	return NewRoll(rolls, right), nil
}

func maxOf(values []float64) float64 {
	top := values[0]
	for _, v := range values[1:] {
		if v > top {
			top = v
		}
	}
	return top
}

func minOf(values []float64) float64 {
	low := values[0]
	for _, v := range values[1:] {
		if v < low {
			low = v
		}
	}
	return low
}

// takeHigh keeps the highest count rolls and discards the rest.
func takeHigh(left, right Value) (Value, error) {
	roll, err := asRoll("h", left)
	if err != nil {
		return nil, err
	}
	count, err := asInt("h", right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	if out.Len() > count {
		out.DiscardRange(0, out.Len()-count)
	}
	return out, nil
}

// takeLow keeps the lowest count rolls and discards the rest.
func takeLow(left, right Value) (Value, error) {
	roll, err := asRoll("l", left)
	if err != nil {
		return nil, err
	}
	count, err := asInt("l", right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	if out.Len() > count {
		out.DiscardRange(count, out.Len())
	}
	return out, nil
}

// floorVal replaces any roll below the floor with the floor itself.
func floorVal(left, right Value) (Value, error) {
	roll, err := asRoll("f", left)
	if err != nil {
		return nil, err
	}
	bottom, err := asNumber("f", right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	out.WithSortingSuspended(func() {
		for i := 0; i < out.Len(); i++ {
			if out.Get(i) < bottom {
				out.Replace(i, bottom)
			}
		}
	})
	return out, nil
}

// ceilVal replaces any roll above the ceiling with the ceiling itself.
func ceilVal(left, right Value) (Value, error) {
	roll, err := asRoll("c", left)
	if err != nil {
		return nil, err
	}
	top, err := asNumber("c", right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	out.WithSortingSuspended(func() {
		for i := 0; i < out.Len(); i++ {
			if out.Get(i) > top {
				out.Replace(i, top)
			}
		}
	})
	return out, nil
}

// rerollOnce rerolls each value matching comp exactly once, taking the
// new result whatever it is.
func rerollOnce(op string, left, right Value, comp func(x, target float64) bool) (Value, error) {
	roll, err := asRoll(op, left)
	if err != nil {
		return nil, err
	}
	target, err := asNumber(op, right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	var rollErr error
	out.WithSortingSuspended(func() {
		for i := 0; i < out.Len(); i++ {
			if comp(out.Get(i), target) {
				v, err := singleDie(out.Die)
				if err != nil {
					rollErr = err
					return
				}
				out.Replace(i, v)
			}
		}
	})
	if rollErr != nil {
		return nil, rollErr
	}
	return out, nil
}

// rerollUnconditional keeps rerolling each matching value until it no
// longer matches. Callers must rule out configurations that can never
// stop before using this.
func rerollUnconditional(op string, left, right Value, comp func(x, target float64) bool) (Value, error) {
	roll, err := asRoll(op, left)
	if err != nil {
		return nil, err
	}
	target, err := asNumber(op, right)
	if err != nil {
		return nil, err
	}
	out := roll.Copy()
	var rollErr error
	out.WithSortingSuspended(func() {
		for i := 0; i < out.Len(); i++ {
			for comp(out.Get(i), target) {
				v, err := singleDie(out.Die)
				if err != nil {
					rollErr = err
					return
				}
				out.Replace(i, v)
			}
		}
	})
	if rollErr != nil {
		return nil, rollErr
	}
	return out, nil
}

func rerollOnceOn(left, right Value) (Value, error) {
	return rerollOnce("r", left, right, func(x, t float64) bool { return x == t })
}

func rerollOnceHigher(left, right Value) (Value, error) {
	return rerollOnce("r>", left, right, func(x, t float64) bool { return x > t })
}

func rerollOnceLower(left, right Value) (Value, error) {
	return rerollOnce("r<", left, right, func(x, t float64) bool { return x < t })
}

func rerollUnconditionalOn(left, right Value) (Value, error) {
	return rerollUnconditional("R", left, right, func(x, t float64) bool { return x == t })
}

// rerollUnconditionalHigher rejects targets below the die's minimum,
// which could never stop rerolling.
func rerollUnconditionalHigher(left, right Value) (Value, error) {
	roll, err := asRoll("R>", left)
	if err != nil {
		return nil, err
	}
	target, err := asNumber("R>", right)
	if err != nil {
		return nil, err
	}
	low := 1.0
	switch die := roll.Die.(type) {
	case Tuple:
		if len(die) > 0 {
			low = minOf(die)
		}
	case *Roll:
		if die.Len() > 0 {
			low = minOf(die.Rolls())
		}
	}
	if target < low {
		return nil, errors.New("EVAL-0003", map[string]any{
			"Die": roll.Die.Inspect(), "Relation": "less", "Target": FormatNumber(target),
		})
	}
	return rerollUnconditional("R>", left, right, func(x, t float64) bool { return x > t })
}

// rerollUnconditionalLower rejects targets above the die's maximum,
// which could never stop rerolling.
func rerollUnconditionalLower(left, right Value) (Value, error) {
	roll, err := asRoll("R<", left)
	if err != nil {
		return nil, err
	}
	target, err := asNumber("R<", right)
	if err != nil {
		return nil, err
	}
	var high float64
	switch die := roll.Die.(type) {
	case Number:
		high = float64(die)
	case Tuple:
		if len(die) > 0 {
			high = maxOf(die)
		}
	case *Roll:
		if die.Len() > 0 {
			high = maxOf(die.Rolls())
		}
	}
	if target > high {
		return nil, errors.New("EVAL-0003", map[string]any{
			"Die": roll.Die.Inspect(), "Relation": "greater", "Target": FormatNumber(target),
		})
	}
	return rerollUnconditional("R<", left, right, func(x, t float64) bool { return x < t })
}

// thresholdLower replaces each roll with 1 if it is at or above the
// threshold, else 0. The original values all become discards, so the
// verbose trace still shows what was actually rolled.
func thresholdLower(left, right Value) (Value, error) {
	return threshold("t", left, right, func(x, t float64) bool { return x >= t })
}

// thresholdUpper replaces each roll with 1 if it is at or below the
// threshold, else 0.
func thresholdUpper(left, right Value) (Value, error) {
	return threshold("T", left, right, func(x, t float64) bool { return x <= t })
}

func threshold(op string, left, right Value, meets func(x, t float64) bool) (Value, error) {
	roll, err := asRoll(op, left)
	if err != nil {
		return nil, err
	}
	target, err := asNumber(op, right)
	if err != nil {
		return nil, err
	}
	successes := make([]float64, 0, roll.Len())
	for _, v := range roll.Rolls() {
		if meets(v, target) {
			successes = append(successes, 1)
		} else {
			successes = append(successes, 0)
		}
	}
	out := NewRoll(successes, CopyValue(roll.Die))
	out.AddDiscards(roll.Discards()...)
	out.AddDiscards(roll.Rolls()...)
	return out, nil
}

// factorial computes left!, which is undefined for negatives.
func factorial(left, _ Value) (Value, error) {
	n, err := asInt("!", left)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New("EVAL-0002", nil)
	}
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return Number(result), nil
}

func exponent(left, right Value) (Value, error) {
	return binaryNumeric("^", left, right, func(l, r float64) (float64, error) {
		return math.Pow(l, r), nil
	})
}

func multiply(left, right Value) (Value, error) {
	return binaryNumeric("*", left, right, func(l, r float64) (float64, error) {
		return l * r, nil
	})
}

func divide(left, right Value) (Value, error) {
	return binaryNumeric("/", left, right, func(l, r float64) (float64, error) {
		if r == 0 {
			return 0, errors.New("EVAL-0005", nil)
		}
		return l / r, nil
	})
}

func modulo(left, right Value) (Value, error) {
	return binaryNumeric("%", left, right, func(l, r float64) (float64, error) {
		if r == 0 {
			return 0, errors.New("EVAL-0005", nil)
		}
		return math.Mod(l, r), nil
	})
}

func add(left, right Value) (Value, error) {
	return binaryNumeric("+", left, right, func(l, r float64) (float64, error) {
		return l + r, nil
	})
}

func subtract(left, right Value) (Value, error) {
	return binaryNumeric("-", left, right, func(l, r float64) (float64, error) {
		return l - r, nil
	})
}

func greater(left, right Value) (Value, error) {
	return compareNumeric(">", left, right, func(l, r float64) bool { return l > r })
}

func greaterEqual(left, right Value) (Value, error) {
	return compareNumeric(">=", left, right, func(l, r float64) bool { return l >= r })
}

func less(left, right Value) (Value, error) {
	return compareNumeric("<", left, right, func(l, r float64) bool { return l < r })
}

func lessEqual(left, right Value) (Value, error) {
	return compareNumeric("<=", left, right, func(l, r float64) bool { return l <= r })
}

func equal(left, right Value) (Value, error) {
	return compareNumeric("=", left, right, func(l, r float64) bool { return l == r })
}

func booleanOr(left, right Value) (Value, error) {
	return compareNumeric("|", left, right, func(l, r float64) bool { return l != 0 || r != 0 })
}

func booleanAnd(left, right Value) (Value, error) {
	return compareNumeric("&", left, right, func(l, r float64) bool { return l != 0 && r != 0 })
}

// negate is the unary sign operator with code "m".
func negate(_, right Value) (Value, error) {
	n, err := asNumber("-", right)
	if err != nil {
		return nil, err
	}
	return Number(-n), nil
}

// identity is the unary sign operator with code "p".
func identity(_, right Value) (Value, error) {
	n, err := asNumber("+", right)
	if err != nil {
		return nil, err
	}
	return Number(n), nil
}

func binaryNumeric(op string, left, right Value, fn func(l, r float64) (float64, error)) (Value, error) {
	l, err := asNumber(op, left)
	if err != nil {
		return nil, err
	}
	r, err := asNumber(op, right)
	if err != nil {
		return nil, err
	}
	out, err := fn(l, r)
	if err != nil {
		return nil, err
	}
	return Number(out), nil
}

// compareNumeric returns 1 or 0, so comparison results stay usable in
// further arithmetic.
func compareNumeric(op string, left, right Value, fn func(l, r float64) bool) (Value, error) {
	l, err := asNumber(op, left)
	if err != nil {
		return nil, err
	}
	r, err := asNumber(op, right)
	if err != nil {
		return nil, err
	}
	if fn(l, r) {
		return Number(1), nil
	}
	return Number(0), nil
}

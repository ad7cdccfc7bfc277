package operator

import (
	"fmt"
	"sort"
	"strings"
)

// Roll is a set of dice results. It tracks the active rolls (those that
// are actually counted) as well as the die that was rolled to get them
// and any values discarded by keep/drop, reroll, or threshold operators.
//
// The active rolls are kept sorted ascending, which downstream operators
// rely on for deterministic indexing. Operations that must preserve
// positional identity while replacing values in place (the reroll family,
// floor, ceil) suspend sorting for their duration and restore it before
// returning; see WithSortingSuspended.
type Roll struct {
	rolls    []float64
	discards []float64
	noSort   bool

	// Die is the specification that produced this roll: a Number side
	// count, a Tuple of explicit sides, or another *Roll for nested
	// expressions like 2d(1d4).
	Die Value
}

// NewRoll creates a roll from a list of values and the die that produced
// them. The values are sorted ascending.
func NewRoll(rolls []float64, die Value) *Roll {
	r := &Roll{rolls: rolls, Die: die}
	sort.Float64s(r.rolls)
	return r
}

// Len returns the number of active rolls.
func (r *Roll) Len() int { return len(r.rolls) }

// Get returns the active roll at index i.
func (r *Roll) Get(i int) float64 { return r.rolls[i] }

// Rolls returns the active roll values. The slice is shared; callers must
// not mutate it.
func (r *Roll) Rolls() []float64 { return r.rolls }

// Discards returns the discarded values. The slice is shared; callers
// must not mutate it.
func (r *Roll) Discards() []float64 { return r.discards }

// Sum returns the total of the active rolls.
func (r *Roll) Sum() float64 {
	total := 0.0
	for _, v := range r.rolls {
		total += v
	}
	return total
}

// Contains reports whether v is among the active rolls.
func (r *Roll) Contains(v float64) bool {
	for _, x := range r.rolls {
		if x == v {
			return true
		}
	}
	return false
}

// DiscardRange moves the active rolls in [from, to) into the discard
// list. Indexes are clamped to the valid range.
func (r *Roll) DiscardRange(from, to int) {
	from, to = r.clamp(from), r.clamp(to)
	if from >= to {
		return
	}
	r.discards = append(r.discards, r.rolls[from:to]...)
	r.rolls = append(r.rolls[:from], r.rolls[to:]...)
	r.resort()
}

// Replace discards the active roll at index i and puts new in its place.
func (r *Roll) Replace(i int, new float64) {
	r.discards = append(r.discards, r.rolls[i])
	r.rolls[i] = new
	r.resort()
}

// AddDiscards appends values to the discard list without touching the
// active rolls. Threshold operators use this to retire an entire roll set.
func (r *Roll) AddDiscards(values ...float64) {
	r.discards = append(r.discards, values...)
}

// WithSortingSuspended runs fn with the sort invariant suspended, then
// restores it. Use this for in-place scans where element indexes must
// stay stable across replacements.
func (r *Roll) WithSortingSuspended(fn func()) {
	r.noSort = true
	defer func() {
		r.noSort = false
		sort.Float64s(r.rolls)
	}()
	fn()
}

// Copy creates an independent copy of this roll so that modifying
// operators do not mutate their operand.
func (r *Roll) Copy() *Roll {
	rolls := make([]float64, len(r.rolls))
	copy(rolls, r.rolls)
	discards := make([]float64, len(r.discards))
	copy(discards, r.discards)
	return &Roll{rolls: rolls, discards: discards, Die: CopyValue(r.Die)}
}

func (r *Roll) clamp(i int) int {
	if i < 0 {
		i = 0
	}
	if i > len(r.rolls) {
		i = len(r.rolls)
	}
	return i
}

func (r *Roll) resort() {
	if !r.noSort {
		sort.Float64s(r.rolls)
	}
}

func (r *Roll) Type() ValueType { return ROLL_VALUE }

// Inspect renders the roll in its bracketed verbose form, for example
// "[d6: 2, 4, 5]" or "[d20: 18; (3)]" when values have been discarded.
func (r *Roll) Inspect() string {
	rolls := joinNumbers(r.rolls)
	if len(r.discards) > 0 {
		return fmt.Sprintf("[d%s: %s; (%s)]", r.Die.Inspect(), rolls, joinNumbers(r.discards))
	}
	return fmt.Sprintf("[d%s: %s]", r.Die.Inspect(), rolls)
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatNumber(v)
	}
	return strings.Join(parts, ", ")
}

// CopyValue deep-copies a value. Numbers are immutable; Tuples and Rolls
// get fresh backing storage.
func CopyValue(v Value) Value {
	switch val := v.(type) {
	case Tuple:
		out := make(Tuple, len(val))
		copy(out, val)
		return out
	case *Roll:
		return val.Copy()
	default:
		return v
	}
}

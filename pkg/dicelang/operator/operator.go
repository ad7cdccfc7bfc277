// Package operator defines the fixed catalogue of dicelang operators and
// the runtime values they work on.
//
// The single most important export is the registry behind Lookup. It maps
// operator codes ('+', '>=', 'd', ...) to immutable Operator descriptors
// that drive both parsing (precedence, associativity, arity) and
// evaluation (function, cajole rules). The registry is built once at
// package initialization and never mutated.
package operator

import "sort"

// Side represents which operand side(s) an operation applies to. It is a
// bit set: checking whether an operator consumes a left operand is
// op.Arity&SideLeft != 0.
type Side int

const (
	SideNeither Side = 0b00
	SideRight   Side = 0b01
	SideLeft    Side = 0b10
	SideBoth    Side = 0b11
)

// Func is the operation performed by an operator. Unary operators receive
// nil in the slot their arity does not cover and must read only the slot
// it does: a right-arity operator like unary minus reads right, a
// left-arity operator like factorial reads left.
type Func func(left, right Value) (Value, error)

// Operator is an immutable descriptor for one operator.
type Operator struct {
	// Code is the string that denotes this operator in source, like "+"
	// or ">=". The unary sign operators would collide lexically with
	// their binary forms, so they get the distinct codes "m" and "p".
	Code string
	// Precedence orders reduction; a higher number binds tighter.
	Precedence int
	// Fn performs the operation. It must be free of side effects on its
	// operands.
	Fn Func
	// Arity is which side(s) this operator draws operands from.
	Arity Side
	// Associativity breaks precedence ties: left-associative operators
	// reduce before an incoming operator of equal precedence.
	// Exponentiation is the only right-associative operator here.
	Associativity Side
	// Cajole names the operand side(s) that are collapsed to their
	// scalar sum before Fn runs, when they are a Roll or Tuple.
	Cajole Side
	// ViewAs, when non-empty, is the display text used instead of Code
	// (unary minus has code "m" but displays as "-").
	ViewAs string
}

// String returns the text this operator displays as in rendered output.
func (op *Operator) String() string {
	if op.ViewAs != "" {
		return op.ViewAs
	}
	return op.Code
}

// Apply evaluates this operator against its operands. Operand slots the
// arity does not cover must be nil. Before the function runs, any operand
// on a cajoled side that is a Roll or Tuple is collapsed to its sum.
func (op *Operator) Apply(left, right Value) (Value, error) {
	if op.Cajole&SideLeft != 0 {
		if left != nil && left.Type() != NUMBER_VALUE {
			left = Number(Sum(left))
		}
	}
	if op.Cajole&SideRight != 0 {
		if right != nil && right.Type() != NUMBER_VALUE {
			right = Number(Sum(right))
		}
	}
	return op.Fn(left, right)
}

// table is the fixed operator registry, keyed by code. Visually it is
// sorted in descending order of precedence.
var table = map[string]*Operator{
	"!":  {Code: "!", Precedence: 8, Fn: factorial, Arity: SideLeft, Associativity: SideLeft, Cajole: SideLeft},
	"d":  {Code: "d", Precedence: 7, Fn: rollBasic, Arity: SideBoth, Associativity: SideLeft, Cajole: SideLeft},
	"da": {Code: "da", Precedence: 7, Fn: rollAverage, Arity: SideBoth, Associativity: SideLeft, Cajole: SideLeft},
	"dc": {Code: "dc", Precedence: 7, Fn: rollCritical, Arity: SideBoth, Associativity: SideLeft, Cajole: SideLeft},
	"dm": {Code: "dm", Precedence: 7, Fn: rollMax, Arity: SideBoth, Associativity: SideLeft, Cajole: SideLeft},
	"h":  {Code: "h", Precedence: 6, Fn: takeHigh, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"l":  {Code: "l", Precedence: 6, Fn: takeLow, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"f":  {Code: "f", Precedence: 6, Fn: floorVal, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"c":  {Code: "c", Precedence: 6, Fn: ceilVal, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"r":  {Code: "r", Precedence: 6, Fn: rerollOnceOn, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"R":  {Code: "R", Precedence: 6, Fn: rerollUnconditionalOn, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"r<": {Code: "r<", Precedence: 6, Fn: rerollOnceLower, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"R<": {Code: "R<", Precedence: 6, Fn: rerollUnconditionalLower, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"rl": {Code: "rl", Precedence: 6, Fn: rerollOnceLower, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"Rl": {Code: "Rl", Precedence: 6, Fn: rerollUnconditionalLower, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"r>": {Code: "r>", Precedence: 6, Fn: rerollOnceHigher, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"R>": {Code: "R>", Precedence: 6, Fn: rerollUnconditionalHigher, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"rh": {Code: "rh", Precedence: 6, Fn: rerollOnceHigher, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"Rh": {Code: "Rh", Precedence: 6, Fn: rerollUnconditionalHigher, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"t":  {Code: "t", Precedence: 6, Fn: thresholdLower, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"T":  {Code: "T", Precedence: 6, Fn: thresholdUpper, Arity: SideBoth, Associativity: SideLeft, Cajole: SideRight},
	"^":  {Code: "^", Precedence: 5, Fn: exponent, Arity: SideBoth, Associativity: SideRight, Cajole: SideBoth},
	"m":  {Code: "m", Precedence: 4, Fn: negate, Arity: SideRight, Associativity: SideLeft, Cajole: SideRight, ViewAs: "-"},
	"p":  {Code: "p", Precedence: 4, Fn: identity, Arity: SideRight, Associativity: SideLeft, Cajole: SideRight, ViewAs: "+"},
	"*":  {Code: "*", Precedence: 3, Fn: multiply, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"/":  {Code: "/", Precedence: 3, Fn: divide, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"%":  {Code: "%", Precedence: 3, Fn: modulo, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"-":  {Code: "-", Precedence: 2, Fn: subtract, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"+":  {Code: "+", Precedence: 2, Fn: add, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	">":  {Code: ">", Precedence: 1, Fn: greater, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"gt": {Code: "gt", Precedence: 1, Fn: greater, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	">=": {Code: ">=", Precedence: 1, Fn: greaterEqual, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"ge": {Code: "ge", Precedence: 1, Fn: greaterEqual, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"<":  {Code: "<", Precedence: 1, Fn: less, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"lt": {Code: "lt", Precedence: 1, Fn: less, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"<=": {Code: "<=", Precedence: 1, Fn: lessEqual, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"le": {Code: "le", Precedence: 1, Fn: lessEqual, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"=":  {Code: "=", Precedence: 1, Fn: equal, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"|":  {Code: "|", Precedence: 1, Fn: booleanOr, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
	"&":  {Code: "&", Precedence: 1, Fn: booleanAnd, Arity: SideBoth, Associativity: SideLeft, Cajole: SideBoth},
}

// Lookup returns the operator registered under code.
func Lookup(code string) (*Operator, bool) {
	op, ok := table[code]
	return op, ok
}

// Codes returns all registered operator codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsCode reports whether s is a registered operator code.
func IsCode(s string) bool {
	_, ok := table[s]
	return ok
}

// IsDiceCode reports whether code names one of the roll-producing
// operators (d, da, dc, dm), the only position where a side list or the
// fudge die marker may follow.
func IsDiceCode(code string) bool {
	switch code {
	case "d", "da", "dc", "dm":
		return true
	}
	return false
}

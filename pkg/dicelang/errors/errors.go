// Package errors provides structured error types for the dicelang interpreter.
//
// This package defines Error, a unified error type that can represent
// parse, evaluation, and input errors with enough metadata to render a
// caret-pointer message for parse failures and to let callers filter by
// error class without inspecting message text.
package errors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse ErrorClass = "parse" // Malformed expression text or token stream
	ClassEval  ErrorClass = "eval"  // Failure while applying an operator
	ClassInput ErrorClass = "input" // Wrong argument type at a public entry point
)

// Error represents any error from tokenizing, parsing, or evaluating a
// roll expression.
type Error struct {
	Class   ErrorClass     // Error category
	Code    string         // Error code (e.g. "PARSE-0001")
	Message string         // Human-readable message
	Hints   []string       // Suggestions for fixing
	Offset  int            // 0-based character offset into Expr (-1 if unknown)
	Expr    string         // The source expression (parse errors only)
	Data    map[string]any // Template variables
	Cause   error          // Wrapped lower-level cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.String()
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// String returns a formatted representation of the error. Parse errors
// that carry the source expression are rendered with a caret pointing at
// the offending character:
//
//	Invalid operator.
//	    1a4
//	     ^
func (e *Error) String() string {
	if e.Expr != "" && e.Offset >= 0 {
		const indent = "    "
		caret := e.Offset
		if caret > len(e.Expr) {
			caret = len(e.Expr)
		}
		return fmt.Sprintf("%s\n%s%s\n%s%s^",
			e.Message, indent, e.Expr, indent, strings.Repeat(" ", caret))
	}

	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// WithCause returns a copy of the error with the wrapped cause set.
func (e *Error) WithCause(cause error) *Error {
	copy := *e
	copy.Cause = cause
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "Unrecognized character detected.",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "Invalid operator.",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "Unclosed parenthesis detected.",
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "Unopened parenthesis detected.",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "A list can only appear as the sides of a die.",
		Hints:    []string{"2d[1, 3, 5]"},
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "Unterminated die side list.",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "All elements of the side list must be numbers.",
	},
	"PARSE-0008": {
		Class:    ClassParse,
		Template: "F is the fudge die value, and must appear as the side specifier of a roll.",
		Hints:    []string{"4dF"},
	},
	"PARSE-0009": {
		Class:    ClassParse,
		Template: "Unexpectedly terminated expression.",
	},
	"PARSE-0010": {
		Class:    ClassParse,
		Template: "Failed to construct an expression from the token list.",
	},
	"PARSE-0011": {
		Class:    ClassParse,
		Template: "Number is too large.",
	},

	// ========================================
	// Evaluation errors (EVAL-0xxx)
	// ========================================
	"EVAL-0001": {
		Class:    ClassEval,
		Template: "Failed to evaluate expression.",
	},
	"EVAL-0002": {
		Class:    ClassEval,
		Template: "Factorial is undefined for negative numbers.",
	},
	"EVAL-0003": {
		Class:    ClassEval,
		Template: "A die with sides {{.Die}} can never be {{.Relation}} than {{.Target}}. This would create an infinite loop.",
	},
	"EVAL-0004": {
		Class:    ClassEval,
		Template: "Operator '{{.Operator}}' expected {{.Expected}}, got {{.Got}}.",
	},
	"EVAL-0005": {
		Class:    ClassEval,
		Template: "Division by zero.",
	},
	"EVAL-0006": {
		Class:    ClassEval,
		Template: "Cannot roll {{.Count}} dice at once; the limit is {{.Limit}}.",
	},
	"EVAL-0007": {
		Class:    ClassEval,
		Template: "Cannot roll a die with sides: {{.Sides}}.",
	},

	// ========================================
	// Input errors (INPUT-0xxx)
	// ========================================
	"INPUT-0001": {
		Class:    ClassInput,
		Template: "{{.Function}} can only take a rollable string, a number, or a compiled evaluation tree; got {{.Got}}.",
	},
	"INPUT-0002": {
		Class:    ClassInput,
		Template: "You can only compile a string or a number into an evaluation tree; got {{.Got}}.",
	},
	"INPUT-0003": {
		Class:    ClassInput,
		Template: "You can only tokenize a string expression or a number; got {{.Got}}.",
	},
}

// New creates an error from the catalog, rendering its message template
// with the given data.
func New(code string, data map[string]any) *Error {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &Error{
			Class:   ClassEval,
			Code:    code,
			Message: fmt.Sprintf("unknown error code %q", code),
			Offset:  -1,
			Data:    data,
		}
	}
	hints := make([]string, 0, len(def.Hints))
	for _, h := range def.Hints {
		hints = append(hints, renderTemplate(h, data))
	}
	return &Error{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   hints,
		Offset:  -1,
		Data:    data,
	}
}

// NewParse creates a parse error pointing at a character offset in the
// source expression.
func NewParse(code string, offset int, expr string, data map[string]any) *Error {
	e := New(code, data)
	e.Offset = offset
	e.Expr = expr
	return e
}

// Wrap creates a catalog error that records cause as its underlying error.
func Wrap(code string, cause error, data map[string]any) *Error {
	return New(code, data).WithCause(cause)
}

// renderTemplate renders a message template with the given data, falling
// back to the raw template text on any template error.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil || !strings.Contains(tmplStr, "{{") {
		return tmplStr
	}
	tmpl, err := template.New("msg").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}
	return buf.String()
}

// IsParse reports whether err is (or wraps) a parse-class Error.
func IsParse(err error) bool { return hasClass(err, ClassParse) }

// IsEval reports whether err is (or wraps) an evaluation-class Error.
func IsEval(err error) bool { return hasClass(err, ClassEval) }

// IsInput reports whether err is (or wraps) an input-class Error.
func IsInput(err error) bool { return hasClass(err, ClassInput) }

func hasClass(err error, class ErrorClass) bool {
	for err != nil {
		var e *Error
		if errors.As(err, &e) {
			if e.Class == class {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

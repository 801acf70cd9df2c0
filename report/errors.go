package report

import (
	"fmt"
)

// Enumeration of compile error kinds.  Every compile error is fatal: the kind
// only classifies what went wrong.
const (
	KindLexical     = iota // An unrecognized character or unterminated literal.
	KindSyntax             // An unexpected token.
	KindNaming             // Duplicate or undefined names.
	KindArity              // Too many template arguments.
	KindBinding            // A required parameter or initializer is missing.
	KindType               // A value does not match its declared type.
	KindStructural         // Redeclaration of a member.
	KindUnsupported        // A reserved construct with no grammar production.
)

var kindNames = map[int]string{
	KindLexical:     "lexical",
	KindSyntax:      "syntax",
	KindNaming:      "name",
	KindArity:       "arity",
	KindBinding:     "binding",
	KindType:        "type",
	KindStructural:  "structural",
	KindUnsupported: "unsupported",
}

// KindName returns the lowercase display name of an error kind.
func KindName(kind int) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}

	return "compile"
}

// -----------------------------------------------------------------------------

// CompileError is an error in a record source file.  It carries the path of the
// file being read when the error occurred and the span of the offending text.
type CompileError struct {
	// The kind of the error.  This must be one of the enumerated error kinds.
	Kind int

	// The path to the erroneous source file.
	Path string

	// The span over which the error occurs.  This may be nil if no position
	// information is available.
	Span *TextSpan

	// The error message.
	Message string
}

func (ce *CompileError) Error() string {
	if ce.Span == nil {
		return fmt.Sprintf("%s: %s error: %s", ce.Path, KindName(ce.Kind), ce.Message)
	}

	return fmt.Sprintf(
		"%s:%d:%d: %s error: %s",
		ce.Path,
		ce.Span.StartLine+1,
		ce.Span.StartCol+1,
		KindName(ce.Kind),
		ce.Message,
	)
}

// Raise creates a new compile error of the given kind.
func Raise(kind int, path string, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:    kind,
		Path:    path,
		Span:    span,
		Message: fmt.Sprintf(msg, args...),
	}
}

// -----------------------------------------------------------------------------

// CatchErrors catches a compile error thrown by a `panic` during a stage of
// compilation and stores it into the error pointed to by errp.  Any other
// panic value is propagated: those are bugs, not bad input.
// NB: This function must ALWAYS be deferred.
func CatchErrors(errp *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			*errp = cerr
		} else {
			panic(x)
		}
	}
}

package report

// TextSpan represents a range or "span" of source text.  It is used to mark
// erroneous or otherwise significant source text in a record file.  Text
// spans are inclusive on the starting side and exclusive on the ending side:
// the ending column is one past the last character of the span.  The line and
// column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

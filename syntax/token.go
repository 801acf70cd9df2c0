package syntax

import "tblgen/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  This is set for identifiers, literals
	// and error tokens; for string literals the quotes are trimmed off.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_EOF = iota
	TOK_ERROR

	TOK_IDENT
	TOK_STRINGLIT
	TOK_INTLIT
	TOK_INCLUDE

	TOK_SEMI
	TOK_DOT
	TOK_COMMA
	TOK_LT
	TOK_GT
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_LBRACE
	TOK_RBRACE
	TOK_LPAREN
	TOK_RPAREN
	TOK_ASSIGN
	TOK_QUESTION
	TOK_PASTE
	TOK_COLON

	TOK_INT
	TOK_BIT
	TOK_BITS
	TOK_STRING
	TOK_LIST
	TOK_CODE
	TOK_DAG
	TOK_CLASS
	TOK_DEF
	TOK_FOREACH
	TOK_DEFM
	TOK_MULTICLASS
	TOK_FIELD
	TOK_LET
	TOK_IN
)

// tokenNames maps each token kind to the text used to name it in messages.
var tokenNames = map[int]string{
	TOK_EOF:       "end of file",
	TOK_ERROR:     "invalid character",
	TOK_IDENT:     "identifier",
	TOK_STRINGLIT: "string literal",
	TOK_INTLIT:    "integer literal",
	TOK_INCLUDE:   "include",

	TOK_SEMI:     ";",
	TOK_DOT:      ".",
	TOK_COMMA:    ",",
	TOK_LT:       "<",
	TOK_GT:       ">",
	TOK_LBRACKET: "[",
	TOK_RBRACKET: "]",
	TOK_LBRACE:   "{",
	TOK_RBRACE:   "}",
	TOK_LPAREN:   "(",
	TOK_RPAREN:   ")",
	TOK_ASSIGN:   "=",
	TOK_QUESTION: "?",
	TOK_PASTE:    "#",
	TOK_COLON:    ":",
}

// KindName returns a human-readable name for a token kind.
func KindName(kind int) string {
	if name, ok := tokenNames[kind]; ok {
		return name
	}

	for word, kwKind := range keywordPatterns {
		if kwKind == kind {
			return word
		}
	}

	return "token"
}

// String returns the token as it should be named in error messages.
func (t *Token) String() string {
	switch t.Kind {
	case TOK_EOF:
		return "end of file"
	case TOK_STRINGLIT:
		return "\"" + t.Value + "\""
	case TOK_IDENT, TOK_INTLIT, TOK_ERROR:
		return t.Value
	}

	return KindName(t.Kind)
}

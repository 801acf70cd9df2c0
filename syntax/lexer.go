package syntax

import (
	"bufio"
	"io"
	"strings"

	"tblgen/report"
)

// Lexer is responsible for tokenizing a record source file.  It supports a
// single token of pushback.
type Lexer struct {
	path    string
	file    *bufio.Reader
	closer  io.Closer
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int

	// pending is the token that was pushed back, if any.
	pending *Token
}

// NewLexer creates a new lexer reading the source text from r.  The path is
// used for error reporting and include resolution.  If r is also an
// io.Closer, the lexer takes ownership of it and closes it in Close.
func NewLexer(path string, r io.Reader) *Lexer {
	l := &Lexer{
		path:    path,
		file:    bufio.NewReader(r),
		tokBuff: &strings.Builder{},
	}

	if c, ok := r.(io.Closer); ok {
		l.closer = c
	}

	return l
}

// Path returns the path of the source file the lexer is reading.
func (l *Lexer) Path() string {
	return l.path
}

// Close releases the underlying source file if the lexer owns one.  It is
// safe to call Close more than once.
func (l *Lexer) Close() error {
	if l.closer == nil {
		return nil
	}

	err := l.closer.Close()
	l.closer = nil
	return err
}

// PushBack returns a token to the lexer so that it is produced by the next
// call to Next.  Only one token may be pending at a time.
func (l *Lexer) PushBack(tok *Token) {
	if l.pending != nil {
		panic("syntax: lexer pushback buffer is full")
	}

	l.pending = tok
}

// Next retrieves the next token from the input file.  Once the file has ended,
// every call returns an EOF token.
func (l *Lexer) Next() (*Token, error) {
	if l.pending != nil {
		tok := l.pending
		l.pending = nil
		return tok, nil
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case c == -1:
			l.mark()
			return l.makeToken(TOK_EOF), nil
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.skip()
		case c == '/':
			if tok, err := l.lexComment(); tok != nil || err != nil {
				return tok, err
			}
		case c == '"':
			return l.lexStringLit()
		case isDecimalDigit(c):
			return l.lexIntLit()
		case isFirstIdentChar(c):
			return l.lexIdentOrKeyword()
		default:
			return l.lexPunct()
		}
	}
}

// -----------------------------------------------------------------------------

// symbolPatterns maps punctuation characters to their token kind.
var symbolPatterns = map[rune]int{
	':': TOK_COLON,
	';': TOK_SEMI,
	'.': TOK_DOT,
	',': TOK_COMMA,
	'<': TOK_LT,
	'>': TOK_GT,
	'[': TOK_LBRACKET,
	']': TOK_RBRACKET,
	'{': TOK_LBRACE,
	'}': TOK_RBRACE,
	'(': TOK_LPAREN,
	')': TOK_RPAREN,
	'=': TOK_ASSIGN,
	'?': TOK_QUESTION,
	'#': TOK_PASTE,
}

// lexPunct lexes a punctuation mark.  Any character that is not punctuation
// produces an error token carrying the character.
func (l *Lexer) lexPunct() (*Token, error) {
	l.mark()
	c, err := l.eat()
	if err != nil {
		return nil, err
	}

	if kind, ok := symbolPatterns[c]; ok {
		return l.makeToken(kind), nil
	}

	return l.makeToken(TOK_ERROR), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"include": TOK_INCLUDE,

	"int":    TOK_INT,
	"bit":    TOK_BIT,
	"bits":   TOK_BITS,
	"string": TOK_STRING,
	"list":   TOK_LIST,
	"code":   TOK_CODE,
	"dag":    TOK_DAG,

	"class":      TOK_CLASS,
	"def":        TOK_DEF,
	"foreach":    TOK_FOREACH,
	"defm":       TOK_DEFM,
	"multiclass": TOK_MULTICLASS,
	"field":      TOK_FIELD,
	"let":        TOK_LET,
	"in":         TOK_IN,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	kind := TOK_IDENT
	if kwKind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = kwKind
	}

	return l.makeToken(kind), nil
}

// lexIntLit lexes an integer literal.  Lexing stops at the first non-digit.
func (l *Lexer) lexIntLit() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	return l.makeToken(TOK_INTLIT), nil
}

// lexStringLit lexes a string literal.  String literals are raw: there are no
// escape sequences and they may span lines.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.KindLexical, l.path, l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		default:
			l.eat()
		}
	}
}

// lexComment lexes a line or block comment.  It returns nil and no error if a
// comment was skipped.  A `/` that does not begin a comment is not a valid
// token and produces an error token.
func (l *Lexer) lexComment() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}

		return nil, err
	case '*':
		l.skip()

		prev := rune(0)
		for {
			c, err = l.skip()
			if err != nil {
				return nil, err
			} else if c == -1 {
				return nil, report.Raise(report.KindLexical, l.path, l.getSpan(), "unclosed block comment")
			} else if prev == '*' && c == '/' {
				return nil, nil
			}

			prev = c
		}
	}

	l.tokBuff.WriteRune('/')
	return l.makeToken(TOK_ERROR), nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.  Every
// character, including a tab, occupies one column.
func (l *Lexer) updatePos(c rune) {
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

package syntax

import (
	"fmt"
	"os"
	"strings"

	"tblgen/records"
	"tblgen/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.  Parsing
// functions begin with the keyword of their production already consumed and
// consume every token of their production.  Errors are raised by panicking
// with a compile error which Parse recovers.

// Parser is the parser for record source files.  It is a single-pass recursive
// descent parser: classes and defs are built, instantiated and type checked as
// soon as their declarations are parsed.  One parser holds all the state of a
// compilation session: the active lexer and the stack of suspended lexers for
// included files, the class registry, the defs declared so far, and the
// bindings of the enclosing `let` block.
type Parser struct {
	// The lexer currently producing tokens.
	lexer *Lexer

	// The lexers of files suspended by an include, innermost last.
	lexerStack []*Lexer

	// The path of the root source file.
	rootPath string

	// The directories searched for included files after the directory of the
	// including file.
	includeDirs []string

	// The class registry.
	classes map[string]*records.Class

	// The defs in declaration order and indexed by name.
	defines       []*records.Define
	definesByName map[string]*records.Define

	// The bindings of the active `let` block.  letTok and letPath mark where
	// the block was opened.
	inLet       bool
	letBindings []*binding
	letTok      *Token
	letPath     string
}

// binding is a value written in source, the name it is bound to (empty for
// positional template arguments) and where it was written.
type binding struct {
	name  string
	value records.Value
	span  *report.TextSpan
}

// fileError wraps an error reading or opening a source file so that it can be
// told apart from compile errors while unwinding.
type fileError struct {
	err error
}

// NewParser creates a new parser reading the root source file from lexer.
func NewParser(lexer *Lexer, includeDirs []string) *Parser {
	return &Parser{
		lexer:         lexer,
		rootPath:      lexer.Path(),
		includeDirs:   includeDirs,
		classes:       make(map[string]*records.Class),
		definesByName: make(map[string]*records.Define),
	}
}

// ParseFile parses the record source file at path and returns its table.
func ParseFile(path string, includeDirs []string) (*records.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	p := NewParser(NewLexer(path, f), includeDirs)
	if err := p.Parse(); err != nil {
		return nil, err
	}

	return p.Table(), nil
}

// ParseString parses source text held in memory.  The name is used in error
// messages and to resolve relative includes.
func ParseString(name, src string) (*records.Table, error) {
	p := NewParser(NewLexer(name, strings.NewReader(src)), nil)
	if err := p.Parse(); err != nil {
		return nil, err
	}

	return p.Table(), nil
}

// Parse parses the root source file and every file it includes.  All lexers
// are closed when Parse returns, whether or not parsing succeeded.  The
// returned error is a *report.CompileError for bad input.
func (p *Parser) Parse() (err error) {
	defer p.closeLexers()

	defer func() {
		if x := recover(); x != nil {
			if ferr, ok := x.(*fileError); ok {
				err = ferr.err
			} else {
				panic(x)
			}
		}
	}()

	defer report.CatchErrors(&err)

	p.parseFile()
	return nil
}

// Table returns the table of all defs parsed so far.
func (p *Parser) Table() *records.Table {
	return records.NewTable(p.rootPath, p.defines)
}

// Class returns the class with the given name.
func (p *Parser) Class(name string) (*records.Class, bool) {
	c, ok := p.classes[name]
	return c, ok
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token and returns it.  Error tokens are
// rejected here so no production ever sees one.
func (p *Parser) next() *Token {
	tok, err := p.lexer.Next()
	if err != nil {
		if cerr, ok := err.(*report.CompileError); ok {
			panic(cerr)
		}

		panic(&fileError{err: fmt.Errorf("reading %s: %w", p.lexer.Path(), err)})
	}

	if tok.Kind == TOK_ERROR {
		p.error(report.KindLexical, tok.Span, "unexpected character `%s`", tok.Value)
	}

	return tok
}

// pushBack returns a token to the active lexer.
func (p *Parser) pushBack(tok *Token) {
	p.lexer.PushBack(tok)
}

// want moves the parser forward one token and asserts that it is of the given
// kind.  It returns the token.
func (p *Parser) want(kind int) *Token {
	tok := p.next()
	if tok.Kind != kind {
		p.expected(kind, tok)
	}

	return tok
}

// -----------------------------------------------------------------------------

// error raises a compile error on the given span of the active file.
func (p *Parser) error(kind int, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, p.lexer.Path(), span, msg, args...))
}

// reject raises an unexpected token error on the given token.
func (p *Parser) reject(tok *Token) {
	p.error(report.KindSyntax, tok.Span, "unexpected %s", describe(tok))
}

// expected raises an error indicating that a token of the given kind was
// expected instead of tok.
func (p *Parser) expected(kind int, tok *Token) {
	p.error(report.KindSyntax, tok.Span, "expected %s, got %s", describeKind(kind), describe(tok))
}

// unsupported raises an error on a reserved word that has no production.
func (p *Parser) unsupported(tok *Token) {
	p.error(report.KindUnsupported, tok.Span, "unsupported construct: `%s`", tok.Value)
}

// describe returns the token as it is named in error messages.
func describe(tok *Token) string {
	if tok.Kind == TOK_EOF {
		return "end of file"
	}

	return "token `" + tok.String() + "`"
}

// describeKind returns a token kind as it is named in error messages.
func describeKind(kind int) string {
	switch kind {
	case TOK_IDENT, TOK_STRINGLIT, TOK_INTLIT, TOK_EOF:
		return KindName(kind)
	}

	return "`" + KindName(kind) + "`"
}

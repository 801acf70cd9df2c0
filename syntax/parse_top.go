package syntax

import (
	"fmt"
	"os"
	"path/filepath"

	"tblgen/report"
)

// file := {class_def | def | let_open | let_close | include} 'EOF' ;
func (p *Parser) parseFile() {
	for {
		tok := p.next()

		switch tok.Kind {
		case TOK_CLASS:
			p.parseClass()
		case TOK_DEF:
			p.parseDef()
		case TOK_LET:
			p.parseLet(tok)
		case TOK_RBRACE:
			p.parseLetClose(tok)
		case TOK_INCLUDE:
			p.parseInclude()
		case TOK_EOF:
			if p.popLexer() {
				continue
			}

			if p.inLet {
				panic(report.Raise(report.KindSyntax, p.letPath, p.letTok.Span, "unclosed let block"))
			}

			return
		case TOK_FOREACH, TOK_DEFM, TOK_MULTICLASS, TOK_FIELD,
			TOK_BITS, TOK_LIST, TOK_CODE, TOK_DAG:
			p.unsupported(tok)
		default:
			p.reject(tok)
		}
	}
}

// let_open := 'let' let_binding {',' let_binding} 'in' '{' ;
// let_binding := 'IDENT' '=' value ;
func (p *Parser) parseLet(letTok *Token) {
	if p.inLet {
		p.error(report.KindSyntax, letTok.Span, "nested let blocks are not supported")
	}

	var bindings []*binding
	for {
		nameTok := p.want(TOK_IDENT)
		for _, b := range bindings {
			if b.name == nameTok.Value {
				p.error(report.KindNaming, nameTok.Span, "`%s` is bound multiple times in the same let", nameTok.Value)
			}
		}

		p.want(TOK_ASSIGN)
		bindings = append(bindings, &binding{
			name:  nameTok.Value,
			value: p.parseValue(p.next()),
			span:  nameTok.Span,
		})

		if tok := p.next(); tok.Kind != TOK_COMMA {
			p.pushBack(tok)
			break
		}
	}

	p.want(TOK_IN)
	p.want(TOK_LBRACE)

	p.inLet = true
	p.letBindings = bindings
	p.letTok = letTok
	p.letPath = p.lexer.Path()
}

// let_close := '}' ;
func (p *Parser) parseLetClose(tok *Token) {
	if !p.inLet {
		p.reject(tok)
	}

	p.inLet = false
	p.letBindings = nil
	p.letTok = nil
	p.letPath = ""
}

// include := 'include' 'STRINGLIT' ;
func (p *Parser) parseInclude() {
	pathTok := p.want(TOK_STRINGLIT)

	path, ok := p.resolveInclude(pathTok.Value)
	if !ok {
		panic(&fileError{err: fmt.Errorf(
			"%s:%d: unable to locate included file `%s`: %w",
			p.lexer.Path(),
			pathTok.Span.StartLine+1,
			pathTok.Value,
			os.ErrNotExist,
		)})
	}

	if filepath.Clean(p.lexer.Path()) == path {
		p.error(report.KindNaming, pathTok.Span, "file `%s` includes itself", pathTok.Value)
	}

	for _, l := range p.lexerStack {
		if filepath.Clean(l.Path()) == path {
			p.error(report.KindNaming, pathTok.Span, "recursive include of `%s`", pathTok.Value)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		panic(&fileError{err: err})
	}

	p.lexerStack = append(p.lexerStack, p.lexer)
	p.lexer = NewLexer(path, f)
}

// resolveInclude finds the file named by an include directive.  Relative names
// are tried against the directory of the including file, then each include
// directory in order, then the working directory.
func (p *Parser) resolveInclude(name string) (string, bool) {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = []string{name}
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(p.lexer.Path()), name))
		for _, dir := range p.includeDirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
		candidates = append(candidates, name)
	}

	for _, path := range candidates {
		if finfo, err := os.Stat(path); err == nil && !finfo.IsDir() {
			return filepath.Clean(path), true
		}
	}

	return "", false
}

// popLexer resumes the file suspended by the most recent include.  It returns
// false if the active lexer is reading the root file.
func (p *Parser) popLexer() bool {
	if len(p.lexerStack) == 0 {
		return false
	}

	if err := p.lexer.Close(); err != nil {
		panic(&fileError{err: fmt.Errorf("closing %s: %w", p.lexer.Path(), err)})
	}

	p.lexer = p.lexerStack[len(p.lexerStack)-1]
	p.lexerStack = p.lexerStack[:len(p.lexerStack)-1]
	return true
}

// closeLexers closes the active lexer and all suspended lexers.
func (p *Parser) closeLexers() {
	p.lexer.Close()

	for _, l := range p.lexerStack {
		l.Close()
	}
}

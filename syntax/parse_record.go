package syntax

import (
	"strconv"

	"tblgen/records"
	"tblgen/report"
)

// class_def := 'class' 'IDENT' ['<' decl {',' decl} '>'] [':' base] '{' obj_body '}' ;
func (p *Parser) parseClass() {
	nameTok := p.want(TOK_IDENT)
	p.checkUnique(nameTok)

	var params []*records.Declaration
	tok := p.next()
	if tok.Kind == TOK_LT {
		for {
			param, paramTok := p.parseDecl()
			if _, ok := findDecl(params, param.Name); ok {
				p.error(report.KindNaming, paramTok.Span, "parameter `%s` declared multiple times", param.Name)
			}

			params = append(params, param)

			tok = p.next()
			if tok.Kind == TOK_GT {
				break
			} else if tok.Kind != TOK_COMMA {
				p.error(report.KindSyntax, tok.Span, "expected `,` or `>`, got %s", describe(tok))
			}
		}

		tok = p.next()
	}

	var parent *records.Class
	var members []*records.Declaration
	if tok.Kind == TOK_COLON {
		parent, members = p.parseBase(nil)
		tok = p.next()
	}

	if tok.Kind != TOK_LBRACE {
		p.expected(TOK_LBRACE, tok)
	}

	locals, lets := p.parseObjBody(members, true)
	members = append(members, locals...)
	p.applyLets(members, lets)

	p.classes[nameTok.Value] = &records.Class{
		Name:    nameTok.Value,
		Parent:  parent,
		Params:  params,
		Members: members,
	}
}

// def := 'def' 'IDENT' ':' base ['{' obj_body '}'] ';' ;
func (p *Parser) parseDef() {
	nameTok := p.want(TOK_IDENT)
	p.checkUnique(nameTok)

	p.want(TOK_COLON)
	class, members := p.parseBase(p.letBindings)

	tok := p.next()
	if tok.Kind == TOK_LBRACE {
		// Plain declarations in a def body do not add members.
		_, lets := p.parseObjBody(members, false)
		p.applyLets(members, lets)

		tok = p.next()
	}

	if tok.Kind != TOK_SEMI {
		p.expected(TOK_SEMI, tok)
	}

	def, err := records.NewDefine(nameTok.Value, class, members)
	if err != nil {
		p.error(report.KindNaming, nameTok.Span, "%s", err)
	}

	p.defines = append(p.defines, def)
	p.definesByName[def.Name] = def
}

// base := 'IDENT' ['<' value {',' value} '>'] ;
//
// The members of the instantiated base are returned.  The outer let bindings
// are substituted into them.
func (p *Parser) parseBase(outer []*binding) (*records.Class, []*records.Declaration) {
	classTok := p.want(TOK_IDENT)

	class, ok := p.classes[classTok.Value]
	if !ok {
		p.error(report.KindNaming, classTok.Span, "undefined class `%s`", classTok.Value)
	}

	var args []*binding
	if tok := p.next(); tok.Kind == TOK_LT {
		for {
			argTok := p.next()
			args = append(args, &binding{value: p.parseValue(argTok), span: argTok.Span})

			tok = p.next()
			if tok.Kind == TOK_GT {
				break
			} else if tok.Kind != TOK_COMMA {
				p.error(report.KindSyntax, tok.Span, "expected `,` or `>`, got %s", describe(tok))
			}
		}
	} else {
		p.pushBack(tok)
	}

	return class, p.instantiate(class, args, outer, classTok.Span)
}

// obj_body := {(decl | 'let' 'IDENT' '=' value) ';'} '}' ;
//
// The opening brace has already been consumed.  Local declarations may not
// reuse the name of an inherited member: inherited members are changed with
// `let`.  If requireInit is set, every local declaration must have an
// initializer.
func (p *Parser) parseObjBody(inherited []*records.Declaration, requireInit bool) ([]*records.Declaration, []*binding) {
	var locals []*records.Declaration
	var lets []*binding

	for {
		tok := p.next()
		if tok.Kind == TOK_RBRACE {
			break
		}

		if tok.Kind == TOK_LET {
			nameTok := p.want(TOK_IDENT)
			p.want(TOK_ASSIGN)
			lets = append(lets, &binding{
				name:  nameTok.Value,
				value: p.parseValue(p.next()),
				span:  nameTok.Span,
			})
		} else {
			p.pushBack(tok)
			decl, declTok := p.parseDecl()

			if _, ok := findDecl(inherited, decl.Name); ok {
				p.error(report.KindStructural, declTok.Span, "member `%s` is inherited: use `let` to change its value", decl.Name)
			}

			if _, ok := findDecl(locals, decl.Name); ok {
				p.error(report.KindStructural, declTok.Span, "member `%s` declared multiple times", decl.Name)
			}

			if requireInit && decl.Value == nil {
				p.error(report.KindBinding, declTok.Span, "member `%s` must be initialized", decl.Name)
			}

			locals = append(locals, decl)
		}

		p.want(TOK_SEMI)
	}

	return locals, lets
}

// decl := type 'IDENT' ['=' value] ;
// type := 'int' | 'string' | 'bit' | 'IDENT' ;
//
// The token naming the declaration is returned with it.
func (p *Parser) parseDecl() (*records.Declaration, *Token) {
	typeTok := p.next()

	var typeName string
	switch typeTok.Kind {
	case TOK_INT:
		typeName = records.TypeInt
	case TOK_STRING:
		typeName = records.TypeString
	case TOK_BIT:
		typeName = records.TypeBit
	case TOK_IDENT:
		typeName = typeTok.Value
	case TOK_BITS, TOK_LIST, TOK_CODE, TOK_DAG:
		p.unsupported(typeTok)
	default:
		p.error(report.KindSyntax, typeTok.Span, "expected type, got %s", describe(typeTok))
	}

	nameTok := p.want(TOK_IDENT)
	decl := &records.Declaration{Name: nameTok.Value, Type: typeName}

	if tok := p.next(); tok.Kind == TOK_ASSIGN {
		decl.Value = p.parseValue(p.next())
	} else {
		p.pushBack(tok)
	}

	return decl, nameTok
}

// value := 'STRINGLIT' | 'INTLIT' | 'IDENT' ;
//
// Identifiers naming a def that has already been declared become references
// to it.  All other identifiers are left to be resolved on instantiation.
func (p *Parser) parseValue(tok *Token) records.Value {
	switch tok.Kind {
	case TOK_STRINGLIT:
		return &records.StringLit{Val: tok.Value}
	case TOK_INTLIT:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.error(report.KindSyntax, tok.Span, "integer literal `%s` is out of range", tok.Value)
		}

		return &records.IntLit{Val: n}
	case TOK_IDENT:
		if def, ok := p.definesByName[tok.Value]; ok {
			return &records.DefRef{Def: def}
		}

		return &records.UnresolvedRef{Name: tok.Value}
	}

	p.error(report.KindSyntax, tok.Span, "expected value, got %s", describe(tok))
	return nil
}

// -----------------------------------------------------------------------------

// checkUnique asserts that no class or def has been declared with the name.
func (p *Parser) checkUnique(nameTok *Token) {
	if _, ok := p.classes[nameTok.Value]; ok {
		p.error(report.KindNaming, nameTok.Span, "`%s` is already declared as a class", nameTok.Value)
	}

	if _, ok := p.definesByName[nameTok.Value]; ok {
		p.error(report.KindNaming, nameTok.Span, "`%s` is already declared as a def", nameTok.Value)
	}
}

func findDecl(decls []*records.Declaration, name string) (*records.Declaration, bool) {
	for _, decl := range decls {
		if decl.Name == name {
			return decl, true
		}
	}

	return nil, false
}

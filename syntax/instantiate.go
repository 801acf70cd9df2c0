package syntax

import (
	"tblgen/records"
	"tblgen/report"
)

// instantiate binds the template arguments of a base reference and returns a
// fresh copy of the members of the class evaluated against them.  Parameters
// without an argument take their default value.  Bindings of the enclosing
// `let` block replace the values of members of the same name, and every one
// of them must name a member.  span is the position of the class name.
func (p *Parser) instantiate(class *records.Class, args, outer []*binding, span *report.TextSpan) []*records.Declaration {
	if len(args) > len(class.Params) {
		p.error(
			report.KindArity,
			span,
			"class `%s` takes at most %d template arguments but received %d",
			class.Name,
			len(class.Params),
			len(args),
		)
	}

	scope := make(map[string]records.Value, len(class.Params))
	for i, param := range class.Params {
		if i < len(args) {
			p.typecheck(param, args[i].value, args[i].span)
			scope[param.Name] = args[i].value
		} else if param.Value != nil {
			scope[param.Name] = param.Value
		} else {
			p.error(report.KindBinding, span, "no value given for parameter `%s` of class `%s`", param.Name, class.Name)
		}
	}

	for _, b := range outer {
		if _, ok := class.Member(b.name); !ok {
			p.error(report.KindType, span, "let binding `%s` does not name a member of class `%s`", b.name, class.Name)
		}
	}

	members := make([]*records.Declaration, len(class.Members))
	for i, member := range class.Members {
		value, err := member.Value.Eval(scope)
		if err != nil {
			p.error(report.KindNaming, span, "member `%s` of class `%s`: %s", member.Name, class.Name, err)
		}

		for _, b := range outer {
			if b.name == member.Name {
				value = b.value
			}
		}

		p.typecheck(member, value, span)
		members[i] = &records.Declaration{Name: member.Name, Type: member.Type, Value: value}
	}

	return members
}

// applyLets replaces the values of members with the values of body `let`
// statements.  Later statements win.
func (p *Parser) applyLets(members []*records.Declaration, lets []*binding) {
	for _, b := range lets {
		member, ok := findDecl(members, b.name)
		if !ok {
			p.error(report.KindType, b.span, "cannot let unknown member `%s`", b.name)
		}

		p.typecheck(member, b.value, b.span)
		member.Value = b.value
	}
}

// typecheck asserts that a value may be assigned to a declaration.
func (p *Parser) typecheck(decl *records.Declaration, value records.Value, span *report.TextSpan) {
	if !records.Assignable(decl.Type, value) {
		p.error(
			report.KindType,
			span,
			"cannot assign %s value `%s` to `%s` of type `%s`",
			value.Kind(),
			value,
			decl.Name,
			decl.Type,
		)
	}
}

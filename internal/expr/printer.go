package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders e in the s-expression syntax accepted by the parser package.
// Binder names that would shadow a name in scope, or capture a constant of
// the same name, are renamed with a numeric suffix so the text reads back as
// the same term.
func Print(e Expr) string {
	p := &printer{consts: make(map[string]bool)}
	Replace(e, func(sub Expr, _ uint32) (Expr, bool) {
		if c, ok := sub.(*Const); ok {
			p.consts[c.Name] = true
			return sub, true
		}
		return nil, false
	})
	p.print(e)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	scope  []string
	consts map[string]bool
}

func (p *printer) inScope(name string) bool {
	for _, s := range p.scope {
		if s == name {
			return true
		}
	}
	return false
}

func (p *printer) freshName(name string) string {
	if name == "" || name == "_" {
		name = "x"
	}
	if !p.inScope(name) && !p.consts[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !p.inScope(candidate) && !p.consts[candidate] {
			return candidate
		}
	}
}

func (p *printer) print(e Expr) {
	switch x := e.(type) {
	case *Var:
		if int(x.Idx) < len(p.scope) {
			p.sb.WriteString(p.scope[len(p.scope)-1-int(x.Idx)])
		} else {
			fmt.Fprintf(&p.sb, "#%d", x.Idx)
		}
	case *Local:
		if x.PrettyName != "" {
			p.sb.WriteString(x.PrettyName)
		} else {
			p.sb.WriteString(x.Name)
		}
	case *Meta:
		p.sb.WriteString("?" + x.Name)
	case *Sort:
		switch x.Level {
		case 0:
			p.sb.WriteString("Prop")
		case 1:
			p.sb.WriteString("Type")
		default:
			fmt.Fprintf(&p.sb, "(Sort %d)", x.Level)
		}
	case *Const:
		p.sb.WriteString(x.Name)
	case *Macro:
		p.sb.WriteString("(macro ")
		p.sb.WriteString(x.Op)
		for _, a := range x.Args {
			p.sb.WriteByte(' ')
			p.print(a)
		}
		p.sb.WriteByte(')')
	case *App:
		p.sb.WriteByte('(')
		p.print(x.Fn)
		for _, a := range x.Args {
			p.sb.WriteByte(' ')
			p.print(a)
		}
		p.sb.WriteByte(')')
	case *Binding:
		p.printBinding(x)
	case *Let:
		p.printLet(x)
	default:
		p.sb.WriteString("<nil>")
	}
}

func (p *printer) printBinding(b *Binding) {
	depth := len(p.scope)
	if b.kind == KindLambda {
		p.sb.WriteString("(fun")
	} else {
		p.sb.WriteString("(pi")
	}
	var cur Expr = b
	for {
		x, ok := cur.(*Binding)
		if !ok || x.kind != b.kind {
			break
		}
		name := p.freshName(x.Name)
		lb, rb := brackets(x.Info)
		p.sb.WriteString(" " + lb + name + " ")
		p.print(x.Domain)
		p.sb.WriteString(rb)
		p.scope = append(p.scope, name)
		cur = x.Body
	}
	p.sb.WriteByte(' ')
	p.print(cur)
	p.sb.WriteByte(')')
	p.scope = p.scope[:depth]
}

func (p *printer) printLet(l *Let) {
	depth := len(p.scope)
	p.sb.WriteString("(let")
	var cur Expr = l
	for {
		x, ok := cur.(*Let)
		if !ok {
			break
		}
		name := p.freshName(x.Name)
		p.sb.WriteString(" (" + name + " ")
		p.print(x.Type)
		p.sb.WriteByte(' ')
		p.print(x.Value)
		p.sb.WriteByte(')')
		p.scope = append(p.scope, name)
		cur = x.Body
	}
	p.sb.WriteByte(' ')
	p.print(cur)
	p.sb.WriteByte(')')
	p.scope = p.scope[:depth]
}

func brackets(bi BinderInfo) (string, string) {
	switch bi {
	case BinderImplicit:
		return "{", "}"
	case BinderStrictImplicit:
		return "{{", "}}"
	case BinderInstImplicit:
		return "[", "]"
	default:
		return "(", ")"
	}
}

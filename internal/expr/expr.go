// Package expr implements the immutable expression trees rewritten by the
// simplifier.
//
// Nodes are pointers and are shared freely between trees. A node must be
// built with one of the Mk constructors: they compute the cached metadata
// (hash, weight, loose bound variable range) the rest of the system relies on.
// Code that rebuilds a node only when a child changed can therefore compare
// children by identity (==) instead of structurally.
package expr

import "fmt"

// Kind identifies the variant of an expression node.
type Kind uint8

const (
	KindVar Kind = iota
	KindLocal
	KindMeta
	KindSort
	KindConst
	KindMacro
	KindLambda
	KindPi
	KindLet
	KindApp
)

var kindNames = [...]string{
	KindVar:    "var",
	KindLocal:  "local",
	KindMeta:   "meta",
	KindSort:   "sort",
	KindConst:  "const",
	KindMacro:  "macro",
	KindLambda: "lambda",
	KindPi:     "pi",
	KindLet:    "let",
	KindApp:    "app",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// BinderInfo marks how the argument of a binder is supplied.
type BinderInfo uint8

const (
	BinderDefault BinderInfo = iota
	BinderImplicit
	BinderStrictImplicit
	BinderInstImplicit
)

func (bi BinderInfo) String() string {
	switch bi {
	case BinderImplicit:
		return "implicit"
	case BinderStrictImplicit:
		return "strict_implicit"
	case BinderInstImplicit:
		return "inst_implicit"
	default:
		return "default"
	}
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Kind() Kind
	// Hash is a structural hash. Binder names do not contribute to it, so
	// alpha-equivalent expressions hash alike.
	Hash() uint64
	// Weight is the number of nodes in the tree (saturating).
	Weight() uint32
	// LooseBVarRange is one more than the largest de Bruijn index that
	// escapes the expression, or 0 if the expression is closed.
	LooseBVarRange() uint32
	HasLocal() bool
	HasMeta() bool
	String() string
	info() *nodeInfo
}

type nodeInfo struct {
	hash     uint64
	weight   uint32
	bvRange  uint32
	hasLocal bool
	hasMeta  bool
}

func (n *nodeInfo) Hash() uint64           { return n.hash }
func (n *nodeInfo) Weight() uint32         { return n.weight }
func (n *nodeInfo) LooseBVarRange() uint32 { return n.bvRange }
func (n *nodeInfo) HasLocal() bool         { return n.hasLocal }
func (n *nodeInfo) HasMeta() bool          { return n.hasMeta }
func (n *nodeInfo) info() *nodeInfo        { return n }

// Var is a de Bruijn indexed bound variable. It only occurs under the binder
// that introduces it.
type Var struct {
	nodeInfo
	Idx uint32
}

// Local is a free variable standing in for an opened binder. Name is unique;
// PrettyName is the binder name it was created from. Value is set for
// let-bound locals.
type Local struct {
	nodeInfo
	Name       string
	PrettyName string
	Type       Expr
	Info       BinderInfo
	Value      Expr
}

// Meta is a metavariable. Equations use metavariables as pattern variables.
type Meta struct {
	nodeInfo
	Name string
	Type Expr
}

// Sort is a universe. Levels are plain naturals: Sort 0 is Prop, Sort 1 is Type.
type Sort struct {
	nodeInfo
	Level uint32
}

// Const is a reference to a global declaration.
type Const struct {
	nodeInfo
	Name string
}

// Macro is an opaque operator applied to arguments.
type Macro struct {
	nodeInfo
	Op   string
	Args []Expr
}

// Binding is a Lambda or a Pi node.
type Binding struct {
	nodeInfo
	kind   Kind
	Name   string
	Domain Expr
	Body   Expr
	Info   BinderInfo
}

// Let binds Name to Value of type Type in Body.
type Let struct {
	nodeInfo
	Name  string
	Type  Expr
	Value Expr
	Body  Expr
}

// App applies Fn to Args. Fn is never itself an App.
type App struct {
	nodeInfo
	Fn   Expr
	Args []Expr
}

func (*Var) Kind() Kind       { return KindVar }
func (*Local) Kind() Kind     { return KindLocal }
func (*Meta) Kind() Kind      { return KindMeta }
func (*Sort) Kind() Kind      { return KindSort }
func (*Const) Kind() Kind     { return KindConst }
func (*Macro) Kind() Kind     { return KindMacro }
func (b *Binding) Kind() Kind { return b.kind }
func (*Let) Kind() Kind       { return KindLet }
func (*App) Kind() Kind       { return KindApp }

func (e *Var) String() string     { return Print(e) }
func (e *Local) String() string   { return Print(e) }
func (e *Meta) String() string    { return Print(e) }
func (e *Sort) String() string    { return Print(e) }
func (e *Const) String() string   { return Print(e) }
func (e *Macro) String() string   { return Print(e) }
func (e *Binding) String() string { return Print(e) }
func (e *Let) String() string     { return Print(e) }
func (e *App) String() string     { return Print(e) }

// IsLambda reports whether e is a Lambda node.
func IsLambda(e Expr) bool { return e.Kind() == KindLambda }

// IsPi reports whether e is a Pi node.
func IsPi(e Expr) bool { return e.Kind() == KindPi }

// IsBinding reports whether e is a Lambda or a Pi node.
func IsBinding(e Expr) bool {
	k := e.Kind()
	return k == KindLambda || k == KindPi
}

// PlaceholderName is the constant name of the "_" placeholder.
const PlaceholderName = "_"

// AsIsOp is the macro operator marking an expression as already elaborated.
const AsIsOp = "as_is"

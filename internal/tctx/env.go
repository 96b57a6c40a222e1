package tctx

import (
	"errors"
	"fmt"

	"github.com/funvibe/dsimp/internal/expr"
)

// ErrDuplicateDeclaration is returned when a name is declared twice.
var ErrDuplicateDeclaration = errors.New("duplicate declaration")

// Declaration is a global constant. Value is nil for axioms and opaque
// constants; definitions with a value can be unfolded during reduction.
type Declaration struct {
	Name  string
	Type  expr.Expr
	Value expr.Expr
}

// IsDefinition reports whether the declaration can be unfolded.
func (d *Declaration) IsDefinition() bool {
	return d.Value != nil
}

// Environment holds the declarations known to a context, in declaration order.
type Environment struct {
	decls map[string]*Declaration
	order []string
}

func NewEnvironment() *Environment {
	return &Environment{decls: make(map[string]*Declaration)}
}

// Add registers d. Declaring the same name twice is an error.
func (env *Environment) Add(d *Declaration) error {
	if d.Name == "" {
		return fmt.Errorf("declaration without a name")
	}
	if _, exists := env.decls[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, d.Name)
	}
	env.decls[d.Name] = d
	env.order = append(env.order, d.Name)
	return nil
}

// Find returns the declaration named name.
func (env *Environment) Find(name string) (*Declaration, bool) {
	d, ok := env.decls[name]
	return d, ok
}

// Declarations returns every declaration in the order it was added.
func (env *Environment) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(env.order))
	for _, name := range env.order {
		out = append(out, env.decls[name])
	}
	return out
}

func (env *Environment) Len() int { return len(env.order) }

// Package theory reads theory files: YAML documents listing declarations and
// equations written in the expression syntax of package parser.
//
//	name: nat
//	declarations:
//	  - name: add
//	    type: "(pi {A Type} [inst (Add A)] (x A) (y A) A)"
//	  - name: two
//	    type: Nat
//	    value: "(succ (succ zero))"
//	equations:
//	  - name: add_zero
//	    lhs: "(add ?A ?i ?x zero)"
//	    rhs: "?x"
//
// Metavariables (?x) in equations are pattern variables.
package theory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/dsimp/internal/eqn"
	"github.com/funvibe/dsimp/internal/parser"
	"github.com/funvibe/dsimp/internal/tctx"
)

// File is the on-disk form of a theory.
type File struct {
	Name         string        `yaml:"name"`
	Declarations []Declaration `yaml:"declarations,omitempty"`
	Equations    []Equation    `yaml:"equations,omitempty"`
}

type Declaration struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value,omitempty"`
}

type Equation struct {
	Name       string   `yaml:"name"`
	LHS        string   `yaml:"lhs"`
	RHS        string   `yaml:"rhs"`
	Hypotheses []string `yaml:"hypotheses,omitempty"`
}

// LoadFile reads and parses a theory file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theory %s: %w", path, err)
	}
	return ParseFile(data, path)
}

// ParseFile parses theory content from bytes.
// The path argument is used for error messages.
func ParseFile(data []byte, path string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

// Marshal renders f back to YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

func (f *File) validate(path string) error {
	if f.Name == "" {
		return fmt.Errorf("%s: theory name is required", path)
	}
	seen := make(map[string]bool)
	for i, d := range f.Declarations {
		if d.Name == "" {
			return fmt.Errorf("%s: declaration %d has no name", path, i)
		}
		if d.Type == "" {
			return fmt.Errorf("%s: declaration %s has no type", path, d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("%s: declaration %s: %w", path, d.Name, tctx.ErrDuplicateDeclaration)
		}
		seen[d.Name] = true
	}
	for i, eq := range f.Equations {
		if eq.Name == "" {
			return fmt.Errorf("%s: equation %d has no name", path, i)
		}
		if eq.LHS == "" || eq.RHS == "" {
			return fmt.Errorf("%s: equation %s needs both lhs and rhs", path, eq.Name)
		}
	}
	return nil
}

// Theory is a loaded set of theories: the environment their declarations
// populate and the index of their equations.
type Theory struct {
	Env   *tctx.Environment
	Index *eqn.Index
	names []string
}

func New() *Theory {
	return &Theory{Env: tctx.NewEnvironment(), Index: eqn.NewIndex()}
}

// Names returns the names of the files added so far, in order.
func (t *Theory) Names() []string {
	return append([]string(nil), t.names...)
}

// Add parses the declarations and equations of f into t. Declarations are
// added before equations so equations may mention them.
func (t *Theory) Add(f *File) error {
	for _, d := range f.Declarations {
		decl, err := d.build()
		if err != nil {
			return fmt.Errorf("theory %s: %w", f.Name, err)
		}
		if err := t.Env.Add(decl); err != nil {
			return fmt.Errorf("theory %s: %w", f.Name, err)
		}
	}
	for _, e := range f.Equations {
		eq, err := e.build()
		if err != nil {
			return fmt.Errorf("theory %s: %w", f.Name, err)
		}
		if err := t.Index.Add(eq); err != nil {
			return fmt.Errorf("theory %s: %w", f.Name, err)
		}
	}
	t.names = append(t.names, f.Name)
	return nil
}

// Load reads every file in paths into a fresh Theory.
func Load(paths ...string) (*Theory, error) {
	t := New()
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		if err := t.Add(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (d Declaration) build() (*tctx.Declaration, error) {
	typ, err := parser.ParseExpr(d.Type)
	if err != nil {
		return nil, fmt.Errorf("declaration %s type: %w", d.Name, err)
	}
	decl := &tctx.Declaration{Name: d.Name, Type: typ}
	if d.Value != "" {
		if decl.Value, err = parser.ParseExpr(d.Value); err != nil {
			return nil, fmt.Errorf("declaration %s value: %w", d.Name, err)
		}
	}
	return decl, nil
}

func (e Equation) build() (*eqn.Equation, error) {
	lhs, err := parser.ParseExpr(e.LHS)
	if err != nil {
		return nil, fmt.Errorf("equation %s lhs: %w", e.Name, err)
	}
	rhs, err := parser.ParseExpr(e.RHS)
	if err != nil {
		return nil, fmt.Errorf("equation %s rhs: %w", e.Name, err)
	}
	eq := &eqn.Equation{Name: e.Name, LHS: lhs, RHS: rhs}
	for i, h := range e.Hypotheses {
		hyp, err := parser.ParseExpr(h)
		if err != nil {
			return nil, fmt.Errorf("equation %s hypothesis %d: %w", e.Name, i, err)
		}
		eq.Hypotheses = append(eq.Hypotheses, hyp)
	}
	return eq, nil
}

// FromEquation renders an indexed equation back to its file form.
func FromEquation(eq *eqn.Equation) Equation {
	out := Equation{Name: eq.Name, LHS: eq.LHS.String(), RHS: eq.RHS.String()}
	for _, h := range eq.Hypotheses {
		out.Hypotheses = append(out.Hypotheses, h.String())
	}
	return out
}

// FromDeclaration renders a declaration back to its file form.
func FromDeclaration(d *tctx.Declaration) Declaration {
	out := Declaration{Name: d.Name, Type: d.Type.String()}
	if d.Value != nil {
		out.Value = d.Value.String()
	}
	return out
}

// IsParseError reports whether err comes from malformed expression text.
func IsParseError(err error) bool {
	var pe *parser.ParseError
	return errors.As(err, &pe)
}

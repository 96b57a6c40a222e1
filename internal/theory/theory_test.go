package theory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/dsimp/internal/parser"
	"github.com/funvibe/dsimp/internal/tctx"
)

const natTheory = `
name: nat
declarations:
  - name: Nat
    type: Type
  - name: zero
    type: Nat
  - name: succ
    type: "(pi (n Nat) Nat)"
  - name: one
    type: Nat
    value: "(succ zero)"
equations:
  - name: add_zero
    lhs: "(add ?A ?i ?x zero)"
    rhs: "?x"
  - name: sub_self
    lhs: "(sub ?x ?x)"
    rhs: zero
    hypotheses:
      - "(finite ?x)"
`

// TestParseFile verifies the YAML layout of a theory file.
func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(natTheory), "nat.yaml")
	require.NoError(t, err)

	assert.Equal(t, "nat", f.Name)
	require.Len(t, f.Declarations, 4)
	assert.Equal(t, "(succ zero)", f.Declarations[3].Value)
	require.Len(t, f.Equations, 2)
	assert.Equal(t, []string{"(finite ?x)"}, f.Equations[1].Hypotheses)
}

// TestParseFile_Invalid verifies structural validation.
func TestParseFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no name", "declarations: []\n"},
		{"declaration without type", "name: t\ndeclarations:\n  - name: a\n"},
		{"declaration without name", "name: t\ndeclarations:\n  - type: Nat\n"},
		{"equation without rhs", "name: t\nequations:\n  - name: e\n    lhs: a\n"},
		{"equation without name", "name: t\nequations:\n  - lhs: a\n    rhs: b\n"},
		{"not yaml", "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile([]byte(tt.data), "t.yaml")
			assert.Error(t, err)
		})
	}

	_, err := ParseFile([]byte("name: t\ndeclarations:\n  - {name: a, type: Nat}\n  - {name: a, type: Nat}\n"), "t.yaml")
	assert.True(t, errors.Is(err, tctx.ErrDuplicateDeclaration), "got %v", err)
}

// TestTheoryAdd verifies declarations and equations reach the environment
// and the index in order.
func TestTheoryAdd(t *testing.T) {
	f, err := ParseFile([]byte(natTheory), "nat.yaml")
	require.NoError(t, err)

	th := New()
	require.NoError(t, th.Add(f))
	assert.Equal(t, []string{"nat"}, th.Names())

	one, ok := th.Env.Find("one")
	require.True(t, ok)
	assert.True(t, one.IsDefinition())

	eqs := th.Index.Equations()
	require.Len(t, eqs, 2)
	assert.Equal(t, "add_zero", eqs[0].Name)
	assert.True(t, eqs[0].IsUnconditional())
	assert.False(t, eqs[1].IsUnconditional())

	// Adding the same declarations twice is rejected.
	err = th.Add(f)
	assert.True(t, errors.Is(err, tctx.ErrDuplicateDeclaration), "got %v", err)
}

// TestTheoryAdd_ParseErrors verifies malformed expression text is reported.
func TestTheoryAdd_ParseErrors(t *testing.T) {
	f := &File{Name: "bad", Equations: []Equation{{Name: "e", LHS: "(f ?x", RHS: "?x"}}}
	err := New().Add(f)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.Contains(t, err.Error(), "theory bad")

	f = &File{Name: "unbound", Equations: []Equation{{Name: "e", LHS: "(f ?x)", RHS: "?y"}}}
	err = New().Add(f)
	require.Error(t, err)
	assert.False(t, IsParseError(err))
}

// TestLoad verifies several files share one environment.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nat.yaml")
	ext := filepath.Join(dir, "ext.yaml")
	require.NoError(t, os.WriteFile(base, []byte(natTheory), 0o644))
	require.NoError(t, os.WriteFile(ext, []byte(`
name: ext
declarations:
  - name: two
    type: Nat
    value: "(succ one)"
equations:
  - name: two_def
    lhs: two
    rhs: "(succ one)"
`), 0o644))

	th, err := Load(base, ext)
	require.NoError(t, err)
	assert.Equal(t, []string{"nat", "ext"}, th.Names())
	assert.Equal(t, 3, th.Index.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// TestFileRoundTrip verifies indexed items render back to their file form.
func TestFileRoundTrip(t *testing.T) {
	f, err := ParseFile([]byte(natTheory), "nat.yaml")
	require.NoError(t, err)
	th := New()
	require.NoError(t, th.Add(f))

	back := &File{Name: "nat"}
	for _, d := range th.Env.Declarations() {
		back.Declarations = append(back.Declarations, FromDeclaration(d))
	}
	for _, eq := range th.Index.Equations() {
		back.Equations = append(back.Equations, FromEquation(eq))
	}
	data, err := back.Marshal()
	require.NoError(t, err)

	again, err := ParseFile(data, "back.yaml")
	require.NoError(t, err)
	require.Len(t, again.Equations, 2)
	lhs := parser.MustParse(again.Equations[0].LHS)
	assert.Equal(t, "(add ?A ?i ?x zero)", lhs.String())
	assert.Equal(t, "(pi (n Nat) Nat)", again.Declarations[2].Type)
}

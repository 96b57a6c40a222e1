// Package store keeps theories in a SQLite database so a rule set can be
// imported once and reused by later simplifier runs.
//
// Expression texts are stored exactly as they appear in the theory file and
// are parsed again when a theory is turned into an index.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/funvibe/dsimp/internal/theory"
)

// ErrTheoryNotFound is returned by LoadTheory for an unknown name.
var ErrTheoryNotFound = errors.New("theory not found")

const schema = `
CREATE TABLE IF NOT EXISTS theories (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS declarations (
	theory TEXT NOT NULL REFERENCES theories(name) ON DELETE CASCADE,
	seq    INTEGER NOT NULL,
	name   TEXT NOT NULL,
	type   TEXT NOT NULL,
	value  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (theory, seq)
);
CREATE TABLE IF NOT EXISTS equations (
	theory TEXT NOT NULL REFERENCES theories(name) ON DELETE CASCADE,
	seq    INTEGER NOT NULL,
	name   TEXT NOT NULL,
	lhs    TEXT NOT NULL,
	rhs    TEXT NOT NULL,
	PRIMARY KEY (theory, seq)
);
CREATE TABLE IF NOT EXISTS hypotheses (
	theory   TEXT NOT NULL,
	equation INTEGER NOT NULL,
	seq      INTEGER NOT NULL,
	text     TEXT NOT NULL,
	PRIMARY KEY (theory, equation, seq),
	FOREIGN KEY (theory, equation) REFERENCES equations(theory, seq) ON DELETE CASCADE
);
`

// Store is a lemma database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTheory stores f, replacing any theory with the same name.
func (s *Store) SaveTheory(ctx context.Context, f *theory.File) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving theory %s: %w", f.Name, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM theories WHERE name = ?`, f.Name); err != nil {
		return fmt.Errorf("saving theory %s: %w", f.Name, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO theories (name) VALUES (?)`, f.Name); err != nil {
		return fmt.Errorf("saving theory %s: %w", f.Name, err)
	}
	for i, d := range f.Declarations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO declarations (theory, seq, name, type, value) VALUES (?, ?, ?, ?, ?)`,
			f.Name, i, d.Name, d.Type, d.Value)
		if err != nil {
			return fmt.Errorf("saving declaration %s: %w", d.Name, err)
		}
	}
	for i, eq := range f.Equations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO equations (theory, seq, name, lhs, rhs) VALUES (?, ?, ?, ?, ?)`,
			f.Name, i, eq.Name, eq.LHS, eq.RHS)
		if err != nil {
			return fmt.Errorf("saving equation %s: %w", eq.Name, err)
		}
		for j, h := range eq.Hypotheses {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO hypotheses (theory, equation, seq, text) VALUES (?, ?, ?, ?)`,
				f.Name, i, j, h)
			if err != nil {
				return fmt.Errorf("saving equation %s: %w", eq.Name, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("saving theory %s: %w", f.Name, err)
	}
	return nil
}

// LoadTheory reads back the theory called name.
func (s *Store) LoadTheory(ctx context.Context, name string) (*theory.File, error) {
	var found string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM theories WHERE name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTheoryNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading theory %s: %w", name, err)
	}

	f := &theory.File{Name: name}
	if f.Declarations, err = s.loadDeclarations(ctx, name); err != nil {
		return nil, fmt.Errorf("loading theory %s: %w", name, err)
	}
	if f.Equations, err = s.loadEquations(ctx, name); err != nil {
		return nil, fmt.Errorf("loading theory %s: %w", name, err)
	}
	return f, nil
}

func (s *Store) loadDeclarations(ctx context.Context, name string) ([]theory.Declaration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, value FROM declarations WHERE theory = ? ORDER BY seq`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []theory.Declaration
	for rows.Next() {
		var d theory.Declaration
		if err := rows.Scan(&d.Name, &d.Type, &d.Value); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) loadEquations(ctx context.Context, name string) ([]theory.Equation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, name, lhs, rhs FROM equations WHERE theory = ? ORDER BY seq`, name)
	if err != nil {
		return nil, err
	}
	var (
		out  []theory.Equation
		seqs []int
	)
	for rows.Next() {
		var (
			seq int
			eq  theory.Equation
		)
		if err := rows.Scan(&seq, &eq.Name, &eq.LHS, &eq.RHS); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, eq)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// The single connection is free again once rows is closed.
	for i, seq := range seqs {
		hyps, err := s.loadHypotheses(ctx, name, seq)
		if err != nil {
			return nil, err
		}
		out[i].Hypotheses = hyps
	}
	return out, nil
}

func (s *Store) loadHypotheses(ctx context.Context, name string, equation int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM hypotheses WHERE theory = ? AND equation = ? ORDER BY seq`, name, equation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// TheorySummary describes a stored theory.
type TheorySummary struct {
	Name         string
	Declarations int
	Equations    int
}

// Theories lists the stored theories by name.
func (s *Store) Theories(ctx context.Context) ([]TheorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name,
		       (SELECT COUNT(*) FROM declarations d WHERE d.theory = t.name),
		       (SELECT COUNT(*) FROM equations e WHERE e.theory = t.name)
		FROM theories t
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("listing theories: %w", err)
	}
	defer rows.Close()

	var out []TheorySummary
	for rows.Next() {
		var ts TheorySummary
		if err := rows.Scan(&ts.Name, &ts.Declarations, &ts.Equations); err != nil {
			return nil, fmt.Errorf("listing theories: %w", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing theories: %w", err)
	}
	return out, nil
}

// DeleteTheory removes the theory called name. Deleting an unknown theory
// is not an error.
func (s *Store) DeleteTheory(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM theories WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting theory %s: %w", name, err)
	}
	return nil
}

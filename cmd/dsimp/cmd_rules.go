package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/funvibe/dsimp/internal/config"
	"github.com/funvibe/dsimp/internal/store"
	"github.com/funvibe/dsimp/internal/theory"
)

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.DatabasePath()
	if path == "" {
		return nil, fmt.Errorf("no lemma database: pass --db or set database in %s", config.ConfigFileName)
	}
	return store.Open(path)
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		if !slices.Contains(config.TheoryFileExtensions, filepath.Ext(path)) {
			return fmt.Errorf("%s: expected one of %v", path, config.TheoryFileExtensions)
		}
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, path := range args {
		f, err := theory.LoadFile(path)
		if err != nil {
			return err
		}
		// Reject text that would fail later, when the theory is used.
		if err := theory.New().Add(f); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := st.SaveTheory(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d declarations, %d equations)\n",
			f.Name, len(f.Declarations), len(f.Equations))
	}
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		summaries, err := st.Theories(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDECLARATIONS\tEQUATIONS")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s.Name, s.Declarations, s.Equations)
		}
		return w.Flush()
	}

	f, err := st.LoadTheory(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "theory %s\n", f.Name)
	for _, d := range f.Declarations {
		if d.Value != "" {
			fmt.Fprintf(out, "  def %s : %s := %s\n", d.Name, d.Type, d.Value)
		} else {
			fmt.Fprintf(out, "  axiom %s : %s\n", d.Name, d.Type)
		}
	}
	for _, eq := range f.Equations {
		fmt.Fprintf(out, "  eq %s : %s = %s", eq.Name, eq.LHS, eq.RHS)
		if len(eq.Hypotheses) > 0 {
			fmt.Fprintf(out, " if %s", strings.Join(eq.Hypotheses, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return st.DeleteTheory(cmd.Context(), args[0])
}

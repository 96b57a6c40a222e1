package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string

	maxSteps       int
	visitInstances bool
	theoryFiles    []string
	dbPath         string
	theoryNames    []string
	showStats      bool
	noColor        bool

	rootCmd = &cobra.Command{
		Use:   "dsimp",
		Short: "Deep simplification of dependently-typed expressions",
		Long: `dsimp rewrites an expression bottom-up with the unconditional
equations of one or more theories until no equation applies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	simplifyCmd = &cobra.Command{
		Use:   "simplify [EXPR|-]",
		Short: "Simplify an expression (read from stdin with -)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimplify, // Defined in cmd_simplify.go
	}

	// --- Lemma database ---
	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Manage the lemma database",
	}
	rulesImportCmd = &cobra.Command{
		Use:   "import THEORY.yaml...",
		Short: "Check theory files and store them in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRulesImport, // Defined in cmd_rules.go
	}
	rulesListCmd = &cobra.Command{
		Use:   "list [NAME]",
		Short: "List stored theories, or the contents of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRulesList,
	}
	rulesDeleteCmd = &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a theory from the database",
		Args:  cobra.ExactArgs(1),
		RunE:  runRulesDelete,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to dsimp.yaml (default: searched upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite lemma database (overrides the config)")

	simplifyCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step ceiling (overrides the config)")
	simplifyCmd.Flags().BoolVar(&visitInstances, "visit-instances", true, "rewrite inside instance-implicit arguments instead of canonicalizing them")
	simplifyCmd.Flags().StringSliceVarP(&theoryFiles, "theory", "t", nil, "theory file to load (repeatable)")
	simplifyCmd.Flags().StringSliceVar(&theoryNames, "theory-name", nil, "theory to load from the database (default: all)")
	simplifyCmd.Flags().BoolVar(&showStats, "stats", false, "print step and pass counters")
	simplifyCmd.Flags().BoolVar(&noColor, "no-color", false, "never colour the output")

	rulesCmd.AddCommand(rulesImportCmd, rulesListCmd, rulesDeleteCmd)
	rootCmd.AddCommand(simplifyCmd, rulesCmd)
}

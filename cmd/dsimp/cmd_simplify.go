package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/dsimp/internal/config"
	"github.com/funvibe/dsimp/internal/lexer"
	"github.com/funvibe/dsimp/internal/parser"
	"github.com/funvibe/dsimp/internal/pipeline"
	"github.com/funvibe/dsimp/internal/simp"
	"github.com/funvibe/dsimp/internal/store"
	"github.com/funvibe/dsimp/internal/tctx"
	"github.com/funvibe/dsimp/internal/theory"
)

func runSimplify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-steps") {
		if maxSteps <= 0 {
			return fmt.Errorf("--max-steps must be positive, got %d", maxSteps)
		}
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("visit-instances") {
		v := visitInstances
		cfg.VisitInstances = &v
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	source, err := readSource(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	th, err := loadTheories(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	tc := tctx.New(th.Env, tctx.WithMaxUnfold(cfg.MaxUnfold))
	s := simp.NewDsimplifier(tc, th.Index, simp.OptionsFromConfig(cfg), simp.WithLogger(logger))

	initialContext := pipeline.NewPipelineContext(source)
	initialContext.Context = cmd.Context()
	if args[0] != "-" {
		initialContext.FilePath = "<arg>"
	} else {
		initialContext.FilePath = "<stdin>"
	}

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		simp.NewProcessor(s),
		&pipeline.RenderProcessor{Color: useColor(), ShowStats: showStats},
	)
	finalContext := processingPipeline.Run(initialContext)

	if finalContext.Failed() {
		return fmt.Errorf("%s: %w", finalContext.FilePath, finalContext.Errors[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), finalContext.Output)
	return nil
}

func readSource(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// loadTheories gathers the theories of the config, of --theory and of the
// database, in that order.
func loadTheories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*theory.Theory, error) {
	paths := append(cfg.TheoryPaths(), theoryFiles...)
	th, err := theory.Load(paths...)
	if err != nil {
		return nil, err
	}

	if db := cfg.DatabasePath(); db != "" {
		if _, err := os.Stat(db); err != nil {
			return nil, fmt.Errorf("lemma database: %w", err)
		}
		st, err := store.Open(db)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		names := theoryNames
		if len(names) == 0 {
			summaries, err := st.Theories(ctx)
			if err != nil {
				return nil, err
			}
			for _, s := range summaries {
				names = append(names, s.Name)
			}
		}
		for _, name := range names {
			f, err := st.LoadTheory(ctx, name)
			if err != nil {
				return nil, err
			}
			if err := th.Add(f); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("theories loaded",
		slog.Any("names", th.Names()),
		slog.Int("declarations", th.Env.Len()),
		slog.Int("equations", th.Index.Len()),
	)
	return th, nil
}

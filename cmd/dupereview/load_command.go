package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
	"dupereview/internal/config"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var modeFlag string
	var delimiter string

	cmd := &cobra.Command{
		Use:   "load <file.csv>",
		Short: "Import a candidate-pair batch as the review session",
		Long: "Import a candidate-pair batch and replace the stored review session.\n\n" +
			"By default only pairs without a decision are reviewable; pass --all to page through every pair.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := resolveMode(cfg, modeFlag, all)
			if err != nil {
				return err
			}
			opts, err := parseOptions(delimiter)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			b, err := batch.ReadFile(path, opts)
			if err != nil {
				return err
			}

			return ctx.withSession(cmd, true, func(runCtx context.Context, env *sessionEnv) error {
				s, err := env.manager.Load(runCtx, b, mode)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Loaded %s: %d pairs, %d to review (%s)\n", s.Filename(), s.Batch.Len(), s.PageCount(), s.Mode)
				if s.PageCount() == 0 {
					fmt.Fprintln(out, "Every pair already has a decision; use --all to revisit them.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Review every pair, including those already decided")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Load mode: filtered or unfiltered (defaults to review.default_mode)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter (default comma)")
	return cmd
}

func resolveMode(cfg *config.Config, flag string, all bool) (batch.Mode, error) {
	if all {
		return batch.ModeUnfiltered, nil
	}
	if flag != "" {
		return batch.ParseMode(flag)
	}
	return batch.ParseMode(cfg.Review.DefaultMode)
}

func parseOptions(delimiter string) (batch.ParseOptions, error) {
	runes := []rune(delimiter)
	switch {
	case len(runes) == 0:
		return batch.ParseOptions{}, nil
	case delimiter == `\t`:
		return batch.ParseOptions{Delimiter: '\t'}, nil
	case len(runes) == 1:
		return batch.ParseOptions{Delimiter: runes[0]}, nil
	default:
		return batch.ParseOptions{}, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
}

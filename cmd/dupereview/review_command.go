package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
	"dupereview/internal/enrich"
	"dupereview/internal/preflight"
	"dupereview/internal/tui"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Open the interactive review screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen owns the terminal; logs go to the log file only.
			if ctx.verbose != nil {
				*ctx.verbose = false
			}
			return ctx.withSession(cmd, true, func(runCtx context.Context, env *sessionEnv) error {
				s, err := env.current()
				if err != nil {
					return err
				}
				if check := preflight.CheckCatalog(runCtx, env.cfg); !check.Passed {
					return fmt.Errorf("catalog not ready: %s", check.Detail)
				}
				ctrl, client, err := ctx.controller(env, false)
				if err != nil {
					return err
				}
				if s.PageCount() > 0 {
					if _, err := ctrl.Select(runCtx, defaultPage(s)); err != nil {
						return err
					}
				} else {
					ctrl.Start()
				}

				export := func() (string, error) {
					current := env.manager.Current()
					target, err := exportTarget(env.cfg, current, "")
					if err != nil {
						return "", err
					}
					if err := batch.WriteFile(target, current.Batch, batch.SerializeOptions{}); err != nil {
						return "", err
					}
					return target, nil
				}
				model := tui.New(runCtx, ctrl, enrich.NewFetcher(client, env.logger), export)
				return tui.Run(model)
			})
		},
	}
}

package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "show [page]",
		Short: "Compare one pair with live catalog details",
		Long: "Fetch both scenes of a pair from the catalog and show them side by side.\n\n" +
			"Without a page the last viewed page is shown. If the catalog reports either scene as\n" +
			"deleted or already pending deletion, the pair is marked Delete.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(runCtx context.Context, env *sessionEnv) error {
				s, err := env.current()
				if err != nil {
					return err
				}
				page := defaultPage(s)
				if len(args) == 1 {
					if page, err = parsePage(args[0]); err != nil {
						return err
					}
				}
				ctrl, client, err := ctx.controller(env, false)
				if err != nil {
					return err
				}
				if _, err := selectAndEnrich(runCtx, ctrl, client, env.logger, page); err != nil {
					return err
				}
				renderPair(cmd.OutOrStdout(), ctrl, env.cfg.SceneURL, details)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&details, "details", true, "Include fingerprint and link tables")
	return cmd
}

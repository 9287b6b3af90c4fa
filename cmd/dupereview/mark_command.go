package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "mark <page> <merge|redistribution|different|review>",
		Short: "Record a disposition for a pair",
		Long: "Record a disposition for the pair on a page.\n\n" +
			"Both scenes are looked up first; if either is already deleted or pending deletion in the\n" +
			"catalog the pair is marked Delete instead. Use --offline to skip the lookup.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args[0])
			if err != nil {
				return err
			}
			status, err := parseDisposition(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(runCtx context.Context, env *sessionEnv) error {
				if _, err := env.current(); err != nil {
					return err
				}
				ctrl, client, err := ctx.controller(env, offline)
				if err != nil {
					return fmt.Errorf("%w (use --offline to mark without a catalog lookup)", err)
				}
				if offline {
					_, err = ctrl.Select(runCtx, page)
				} else {
					_, err = selectAndEnrich(runCtx, ctrl, client, env.logger, page)
				}
				if err != nil {
					return err
				}
				if err := ctrl.Mark(runCtx, status); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				ticket, _ := ctrl.Ticket()
				fmt.Fprintf(out, "Page %d (%s / %s): %s\n", ticket.Page, ticket.SceneA, ticket.SceneB, ctrl.Status().Label())
				printNotices(out, ctrl.Notices(), shouldColorize(out))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the catalog lookup")
	return cmd
}

// parseDisposition accepts the statuses a reviewer may set directly.
func parseDisposition(value string) (batch.Status, error) {
	if strings.EqualFold(strings.TrimSpace(value), "reset") {
		return batch.StatusReview, nil
	}
	status, ok := batch.ParseStatus(value)
	if !ok || status == batch.StatusUnset {
		return "", fmt.Errorf("unknown status %q (want merge, redistribution, different or review)", value)
	}
	if status == batch.StatusDelete {
		return "", fmt.Errorf("use `dupereview delete <page> <a|b>` to submit a destroy edit")
	}
	return status, nil
}

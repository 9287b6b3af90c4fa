package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dupereview/internal/enrich"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var note string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <page> <a|b>",
		Short: "Submit a destroy edit for one side of a pair",
		Long: "Submit a destroy edit for scene A or B of the pair on a page and mark the pair Delete.\n\n" +
			"The edit note defaults to \"Dupe of <catalog>/scenes/<other scene>\". The request is refused\n" +
			"when the chosen scene is already deleted or has a destroy edit pending.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := parsePage(args[0])
			if err != nil {
				return err
			}
			side, err := enrich.ParseSide(strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(runCtx context.Context, env *sessionEnv) error {
				if _, err := env.current(); err != nil {
					return err
				}
				ctrl, client, err := ctx.controller(env, false)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if _, err := selectAndEnrich(runCtx, ctrl, client, env.logger, page); err != nil {
					return err
				}
				printNotices(out, ctrl.Notices(), colorize)

				flow, err := ctrl.RequestDelete(side)
				ctrl.Notices()
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("note") {
					if err := ctrl.SetNote(note); err != nil {
						return err
					}
					flow, _ = ctrl.Flow()
				}

				fmt.Fprintf(out, "Delete scene %s (%s)\n", side, env.cfg.SceneURL(flow.SceneID))
				fmt.Fprintf(out, "Note: %s\n", flow.Note)
				if !yes {
					confirmed, err := confirm(cmd.InOrStdin(), out, "Submit destroy edit? [y/N] ")
					if err != nil {
						return err
					}
					if !confirmed {
						ctrl.CancelDelete()
						fmt.Fprintln(out, "Cancelled; nothing was submitted.")
						return nil
					}
				}
				err = ctrl.ConfirmDelete(runCtx)
				printNotices(out, ctrl.Notices(), colorize)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Edit note (defaults to a link to the other scene)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

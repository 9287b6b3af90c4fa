package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the stored review session",
		Long: "Discard the stored review session, including every recorded status. Export first to keep them.\n\n" +
			"The stored value is not read, so a damaged session can always be cleared.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.openSession(true)
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.manager.Clear(commandCtx(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}

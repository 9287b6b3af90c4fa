package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the stored review session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(_ context.Context, env *sessionEnv) error {
				out := cmd.OutOrStdout()
				s := env.manager.Current()
				if s == nil {
					fmt.Fprintln(out, "No session loaded.")
					return nil
				}
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Session", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("File", statusInfo, s.Filename(), colorize))
				fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, string(s.Mode), colorize))
				fmt.Fprintln(out, renderStatusLine("Pairs", statusInfo, strconv.Itoa(s.Batch.Len()), colorize))
				fmt.Fprintln(out, renderStatusLine("Reviewable", statusInfo, strconv.Itoa(s.PageCount()), colorize))
				if s.LastPage > 0 {
					fmt.Fprintln(out, renderStatusLine("Last page", statusInfo, strconv.Itoa(s.LastPage), colorize))
				}
				if !s.SavedAt.IsZero() {
					fmt.Fprintln(out, renderStatusLine("Saved", statusInfo, s.SavedAt.Local().Format(time.DateTime), colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Session", statusInfo, s.ID, colorize))
				fmt.Fprintln(out)

				counts := s.Counts()
				rows := make([][]string, 0, len(counts))
				for _, status := range batch.AllStatuses() {
					rows = append(rows, []string{status.Label(), strconv.Itoa(counts[status])})
				}
				var unknown []string
				for status := range counts {
					if !status.Known() {
						unknown = append(unknown, string(status))
					}
				}
				sort.Strings(unknown)
				for _, name := range unknown {
					rows = append(rows, []string{name + " (unrecognized)", strconv.Itoa(counts[batch.Status(name)])})
				}
				fmt.Fprintln(out, renderTable([]string{"Status", "Pairs"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}

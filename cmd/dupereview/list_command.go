package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pairs in the review session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(_ context.Context, env *sessionEnv) error {
				s, err := env.current()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				pageOf := make(map[int]int, s.PageCount())
				for i, idx := range s.Active() {
					pageOf[idx] = i + 1
				}

				var indexes []int
				if all {
					indexes = make([]int, s.Batch.Len())
					for i := range indexes {
						indexes[i] = i
					}
				} else {
					indexes = s.Active()
				}
				if len(indexes) == 0 {
					fmt.Fprintln(out, "No pairs to review. Use --all to include decided pairs.")
					return nil
				}

				rows := make([][]string, 0, len(indexes))
				for _, idx := range indexes {
					row := s.Batch.Rows[idx]
					page := "-"
					if p, ok := pageOf[idx]; ok {
						page = strconv.Itoa(p)
					}
					rows = append(rows, []string{
						page,
						strconv.Itoa(idx + 1),
						row.SceneAID,
						row.SceneBID,
						similarityCell(row.TitleDifflib),
						similarityCell(row.ImagePHash),
						similarityCell(row.ImageAHash),
						similarityCell(row.URLsCheck),
						row.Status.Label(),
					})
				}
				headers := []string{"Page", "Row", "Scene A", "Scene B", "Title", "PHash", "AHash", "URLs", "Status"}
				aligns := []columnAlignment{alignRight, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include pairs outside the reviewable set")
	return cmd
}

func similarityCell(value string) string {
	return displayValue(batch.Classify(value).Display(value))
}

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dupereview/internal/batch"
	"dupereview/internal/config"
	"dupereview/internal/session"
)

const fallbackExportName = "scenes.csv"

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the batch with recorded statuses as CSV",
		Long: "Write every pair of the batch, decided or not, with its Status column.\n\n" +
			"The file is named after the imported file and written to paths.export_dir unless --out\n" +
			"is given. Use --out - to write to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(_ context.Context, env *sessionEnv) error {
				s, err := env.current()
				if err != nil {
					return err
				}
				if outPath == "-" {
					return batch.Serialize(cmd.OutOrStdout(), s.Batch, batch.SerializeOptions{})
				}
				target, err := exportTarget(env.cfg, s, outPath)
				if err != nil {
					return err
				}
				if err := batch.WriteFile(target, s.Batch, batch.SerializeOptions{}); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pairs to %s\n", s.Batch.Len(), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (default <export_dir>/<imported file name>)")
	return cmd
}

// exportTarget resolves where an export goes. An explicit path wins;
// otherwise the imported file name is reused under the export directory.
func exportTarget(cfg *config.Config, s *session.Session, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return config.ExpandPath(explicit)
	}
	name := filepath.Base(strings.TrimSpace(s.Filename()))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fallbackExportName
	}
	dir := cfg.Paths.ExportDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name), nil
}

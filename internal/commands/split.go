package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/intake"
	"github.com/cardguard-dev/cardguard/internal/logger"
)

func newSplitCommand(gf *globalFlags) *cobra.Command {
	var rows int
	var outDir string

	cmd := &cobra.Command{
		Use:   "split <file.csv>",
		Short: "Split a large raw export into intake-sized chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, gf)
			if err != nil {
				return err
			}
			if rows <= 0 {
				rows = p.cfg.Pipeline.SplitRows
			}
			if outDir == "" {
				outDir = p.path(p.cfg.Dirs.Intake)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			paths, err := intake.Split(f, outDir, rows)
			if err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			log.Info().Int("chunks", len(paths)).Str("dir", outDir).Msg("split complete")
			fmt.Fprintf(cmd.OutOrStdout(), "split %s into %d files in %s\n", args[0], len(paths), outDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "data rows per chunk (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: intake dir)")

	return cmd
}

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/pipeline"
)

func newPrepareCommand(gf *globalFlags) *cobra.Command {
	var workers int
	var noMove bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Validate and transform every raw file in the intake directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, gf)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				IntakeDir:     p.path(p.cfg.Dirs.Intake),
				ProcessedDir:  p.path(p.cfg.Dirs.Processed),
				FinalDir:      p.path(p.cfg.Dirs.Final),
				LogDir:        p.path(p.cfg.Dirs.Logs),
				Workers:       p.cfg.Pipeline.Workers,
				MoveValidated: p.cfg.Pipeline.MoveValidated && !noMove,
			}
			if workers > 0 {
				opts.Workers = workers
			}

			report, err := pipeline.NewRunner(opts).Run(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSTAGE\tROWS\tDETAIL")
			for _, r := range report.Results {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.File, r.Stage, r.Rows, r.Reason)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d accepted, %d rejected\n",
				report.RunID, len(report.Accepted()), len(report.Rejected()))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "files processed in parallel (default from config)")
	cmd.Flags().BoolVar(&noMove, "no-move", false, "leave validated raw files in the intake directory")

	return cmd
}

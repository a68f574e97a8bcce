package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/logger"
	"github.com/cardguard-dev/cardguard/internal/pipeline"
)

func newTransformCommand(gf *globalFlags) *cobra.Command {
	var unlabeled bool

	cmd := &cobra.Command{
		Use:   "transform <input.csv> <output.csv>",
		Short: "Transform one raw file into the feature CSV",
		Long: "Transform one raw file into the feature CSV. Labeled input is validated first;\n" +
			"--unlabeled skips validation and omits the is_fraud column.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadProject(cmd, gf); err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())

			res := pipeline.PrepareFile(args[0], args[1], !unlabeled)
			if !res.Accepted() {
				log.Error().Str("file", args[0]).Str("stage", string(res.Stage)).Msg(res.Reason)
				return errors.New(res.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows -> %s\n", args[0], res.Rows, res.Output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&unlabeled, "unlabeled", false, "input has no is_fraud column (serving data)")

	return cmd
}

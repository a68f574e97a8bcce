package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/rawcsv"
	"github.com/cardguard-dev/cardguard/internal/schema"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check raw training files against the required schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				b, err := rawcsv.ReadFile(path)
				if err != nil {
					invalid++
					fmt.Fprintf(out, "%s: invalid: %v\n", path, err)
					continue
				}
				errs := schema.Check(b)
				if len(errs) == 0 {
					fmt.Fprintf(out, "%s: valid (%d rows)\n", path, b.Len())
					continue
				}
				invalid++
				msgs := make([]string, len(errs))
				for i, e := range errs {
					msgs[i] = e.Error()
				}
				fmt.Fprintf(out, "%s: invalid: %s\n", path, strings.Join(msgs, "; "))
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d files invalid", invalid, len(args))
			}
			return nil
		},
	}
}

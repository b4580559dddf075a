package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"timeliner/internal/temporal"
)

// DurationCmd describes an ISO-8601 style duration suffix.
var DurationCmd = &cobra.Command{
	Use:   "duration <suffix>",
	Short: "Describe a duration suffix such as P3Y6M4DT12H",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := temporal.DescribeDuration(args[0])
		if label == "" {
			return errors.Errorf("%q is not a duration (must start with P)", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), label)
		return nil
	},
}

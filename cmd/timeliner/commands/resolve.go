package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"timeliner/internal/temporal"
)

// ResolveCmd resolves date tokens and prints the resulting dates.
var ResolveCmd = &cobra.Command{
	Use:   "resolve <token>...",
	Short: "Resolve normalized date tokens to calendar dates",
	Long: `Resolve one or more normalized date tokens.

Supported forms include full and partial dates (2016-12-24, 2016-02, 2016),
decade and century wildcards (198X, 19XX), seasons (1980-SU), ISO weeks
(2016-W47, 2016-W47-3, 2016-W47-WE), BC years (-0044-03-15) and the
reference tokens PAST_REF, PRESENT_REF and FUTURE_REF.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

var resolveRef string

func init() {
	ResolveCmd.Flags().StringVar(&resolveRef, "ref", "", "Reference date (YYYY-MM-DD) for *_REF tokens")
}

func runResolve(cmd *cobra.Command, args []string) error {
	var ref temporal.CalendarDate
	if resolveRef != "" {
		d, err := temporal.ParseReferenceDate(resolveRef)
		if err != nil {
			return err
		}
		ref = d
	}

	for _, token := range args {
		dates := temporal.Resolve(token, ref)
		if len(dates) == 0 {
			pterm.Printf("%s %s\n", pterm.Yellow(token), pterm.Gray("(no date)"))
			continue
		}
		out := make([]any, 0, len(dates))
		for _, d := range dates {
			out = append(out, pterm.LightGreen(d.String()))
		}
		pterm.Printf("%s %s ", pterm.Yellow(token), pterm.Gray("→"))
		pterm.Println(out...)
	}
	return nil
}

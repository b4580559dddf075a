package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"timeliner/internal/ics"
)

// ExportICSCmd writes the resolved events of document files as iCalendar.
var ExportICSCmd = &cobra.Command{
	Use:   "export-ics <file>...",
	Short: "Export resolved events as an iCalendar feed",
	Long: `Resolve every event of the given document files and write one all-day
VEVENT per dated event. Events dated before the common era are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExportICS,
}

var exportOutput string

func init() {
	addTimelineFlags(ExportICSCmd)
	ExportICSCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExportICS(cmd *cobra.Command, args []string) error {
	tl, err := loadTimeline(cmd.Context(), args)
	if err != nil {
		return err
	}

	body, err := ics.Export(tl.Events)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(exportOutput, body, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", exportOutput)
	}
	pterm.Success.Printf("Wrote %d events to %s\n", len(tl.Events), exportOutput)
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"timeliner/cmd/timeliner/commands"
	appLog "timeliner/internal/log"
)

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "timeliner",
	Short: "Resolve normalized date tokens into an event timeline",
	Long: `timeliner turns annotated documents into a timeline.

Every event carries the normalized date values of its temporal mentions.
They are resolved to calendar dates, folded into one date window per event,
and the events are grouped into a forest by window containment.

Examples:
  timeliner resolve 2016-W47                  # Resolve one token
  timeliner resolve PAST_REF --ref 2016-12-30 # Resolve against a reference date
  timeliner duration P3Y6M                    # Describe a duration suffix
  timeliner build docs.yaml                   # Print the containment tree
  timeliner export-ics docs.yaml -o out.ics   # Write an iCalendar feed
  timeliner serve --config config.yaml        # Serve the timeline over HTTP`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appLog.Configure(appLog.Level(strings.ToUpper(logLevel)), logJSON)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", string(appLog.LevelError), "Log level: DEBUG, INFO, ERROR")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit JSON logs on stderr")

	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.DurationCmd)
	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.ExportICSCmd)
	rootCmd.AddCommand(commands.ServeCmd)
}

func main() {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

package commands

import (
	"github.com/spf13/cobra"

	"timeliner/internal/config"
	appLog "timeliner/internal/log"
	"timeliner/internal/web"
)

// ServeCmd serves the timeline of the configured sources over HTTP.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timeline over HTTP",
	Long: `Load the configured document sources, build their timeline and serve it.
Sources are reloaded on the configured cron schedule.

Endpoints:
  /health          liveness probe (never behind basic auth)
  /api/timeline    containment forest as JSON
  /api/events      resolved events as JSON (?document=<id>)
  /api/resolve     resolve one token (?token=...&ref=YYYY-MM-DD)
  /api/refresh     POST to reload sources now
  /timeline.ics    iCalendar feed`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveListen     string
)

func init() {
	ServeCmd.Flags().StringVar(&serveConfigPath, "config", "./config.yaml", "Path to config file (created with defaults if missing)")
	ServeCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (overrides config if set)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", serveConfigPath)
		return err
	}

	// CLI --listen overrides config file listen if provided.
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	// Log flags on the command line win over the config file.
	if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-json") {
		appLog.Configure(appLog.Level(cfg.LogLevel), cfg.LogJSON)
	}

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"refresh", cfg.RefreshCron,
		"default_reference_date", cfg.DefaultReferenceDate,
		"resolve_workers", cfg.ResolveWorkers,
		"token_cache_size", cfg.TokenCacheSize,
		"source_count", len(cfg.Sources),
	)

	return web.StartServer(cmd.Context(), cfg)
}

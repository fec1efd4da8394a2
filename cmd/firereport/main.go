// Command firereport loads the ODF fire occurrence data and either renders
// the static report, serves the interactive dashboard, checks data
// integrity, or publishes the cleaned records to Kafka.
package main

import (
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/oregon-fire-report/internal/adapter/csvfile"
	"github.com/couchcryptid/oregon-fire-report/internal/adapter/mapbox"
	"github.com/couchcryptid/oregon-fire-report/internal/config"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
	"github.com/couchcryptid/oregon-fire-report/internal/observability"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var dataPath, logLevel, logFormat string

	root := &cobra.Command{
		Use:          "firereport",
		Short:        "Oregon wildfire occurrence report and dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.DataPath = dataPath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			a.cfg = cfg
			a.logger = sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
			a.metrics = observability.NewMetrics()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&dataPath, "data", "", "fire occurrence CSV (overrides FIRE_DATA_PATH)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&logFormat, "log-format", "", "json or text (overrides LOG_FORMAT)")

	root.AddCommand(
		reportCmd(a),
		serveCmd(a),
		validateCmd(a),
		publishCmd(a),
	)
	return root
}

func (a *app) loader() *csvfile.Reader {
	return csvfile.NewReader(a.cfg.DataPath, a.logger)
}

// geocoder is nil unless Mapbox is configured.
func (a *app) geocoder() domain.Geocoder {
	if !a.cfg.MapboxEnabled {
		a.metrics.GeocodeEnabled.Set(0)
		a.logger.Info("mapbox geocoding disabled")
		return nil
	}
	a.metrics.GeocodeEnabled.Set(1)
	client := mapbox.NewClient(a.cfg.MapboxToken, a.cfg.MapboxTimeout, a.metrics, a.logger)
	a.logger.Info("mapbox geocoding enabled", "cache_size", a.cfg.MapboxCacheSize, "timeout", a.cfg.MapboxTimeout)
	return mapbox.NewCachedGeocoder(client, a.cfg.MapboxCacheSize, a.metrics)
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/docker/go-metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/run0-ai/superfast-rsync/configuration"
	"github.com/run0-ai/superfast-rsync/internal/dcontext"
	"github.com/run0-ai/superfast-rsync/version"
)

var (
	showVersion bool
	configPath  string
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a rsyncdiff.yaml configuration file")
	RootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show the version and exit")

	RootCmd.AddCommand(SignatureCmd)
	RootCmd.AddCommand(DiffCmd)
	RootCmd.AddCommand(ApplyCmd)
}

// RootCmd is the main command for the rsyncdiff binary.
var RootCmd = &cobra.Command{
	Use:   "rsyncdiff",
	Short: "`rsyncdiff` builds, diffs, and applies rsync-style block signatures",
	Long:  "`rsyncdiff` builds, diffs, and applies rsync-style block signatures",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			version.PrintVersion(os.Stdout)
			return
		}
		// nolint:errcheck
		cmd.Usage()
	},
}

// defaultConfig is used when no -c/--config flag is given.
var defaultConfig = &configuration.Configuration{
	Log: configuration.Log{Level: "info", Formatter: "text"},
	Signature: configuration.Signature{
		BlockSize:     4096,
		HashAlgorithm: "blake3",
	},
}

func resolveConfiguration() (*configuration.Configuration, error) {
	if configPath == "" {
		return defaultConfig, nil
	}

	buf, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := configuration.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", configPath, err)
	}
	return config, nil
}

// configureLogging prepares the context with a logger built from config.
func configureLogging(ctx context.Context, config *configuration.Configuration) (context.Context, error) {
	level, err := logrus.ParseLevel(string(config.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	formatter := config.Log.Formatter
	if formatter == "" {
		formatter = "text"
	}
	switch formatter {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return ctx, fmt.Errorf("unsupported logging formatter: %q", formatter)
	}

	if len(config.Log.Fields) > 0 {
		var fields []any
		for k := range config.Log.Fields {
			fields = append(fields, k)
		}
		ctx = dcontext.WithValues(ctx, config.Log.Fields)
		ctx = dcontext.WithLogger(ctx, dcontext.GetLogger(ctx, fields...))
	}
	dcontext.SetDefaultLogger(dcontext.GetLogger(ctx).(*logrus.Entry))
	return ctx, nil
}

// metricsServerStarted tracks whether configureMetricsServer has already
// launched the listener for this process, so repeated calls (there is one
// per subcommand) don't attempt to bind the same address twice.
var metricsServerStarted bool

// configureMetricsServer starts the prometheus /metrics endpoint in the
// background when config.Metrics.Enabled is set. It never blocks the
// calling subcommand.
func configureMetricsServer(config *configuration.Configuration) {
	if !config.Metrics.Enabled || metricsServerStarted {
		return
	}
	metricsServerStarted = true

	addr := config.Metrics.Addr
	if addr == "" {
		addr = ":5001"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	go func(addr string) {
		logrus.Infof("providing prometheus metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logrus.Errorf("error listening on metrics interface: %v", err)
		}
	}(addr)
}

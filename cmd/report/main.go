// Command report runs the one-shot analysis: it fetches the dataset once,
// cleans it, and writes the charts, snapshot workbook and text summary.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/config"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/report"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
)

func main() {
	var (
		url       = flag.String("url", "", "dataset CSV URL (defaults to the configured source)")
		countries = flag.String("countries", "", "comma-separated country selection")
		window    = flag.Int("window", 0, "rolling-mean window in observations")
		outDir    = flag.String("out", "", "output directory for charts and reports")
		timeout   = flag.Duration("timeout", 0, "dataset fetch timeout")
		logLevel  = flag.String("log-level", "", "log verbosity: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Flags win over config file and environment.
	if *url != "" {
		cfg.DatasetURL = *url
	}
	if *countries != "" {
		var selection []string
		for _, c := range strings.Split(*countries, ",") {
			if c = strings.TrimSpace(c); c != "" {
				selection = append(selection, c)
			}
		}
		cfg.Countries = selection
	}
	if *window > 0 {
		cfg.RollingWindow = *window
	}
	if *outDir != "" {
		cfg.ChartDir = *outDir
	}
	if *timeout > 0 {
		cfg.FetchTimeout = *timeout
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	runner, err := report.New(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build runner: " + err.Error() + "\n")
		os.Exit(1)
	}

	start := time.Now()
	if err := runner.Run(ctx); err != nil {
		log.Error(ctx, "report failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "report finished",
		logger.String("dir", cfg.ChartDir),
		logger.Duration("took", time.Since(start)),
	)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/report"
	"github.com/ui-inspector/backend/runner"
	"github.com/ui-inspector/backend/severity"
	"github.com/ui-inspector/backend/stats"
)

type runFlags struct {
	configPath  string
	baseURL     string
	routes      []string
	discover    bool
	outDir      string
	screenshots bool
	controlURL  string
	dataDir     string
	failOn      string
	verbose     bool
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect a site and write reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspection(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to YAML config file")
	flags.StringVar(&f.baseURL, "base-url", "", "Base URL of the site to inspect")
	flags.StringSliceVar(&f.routes, "routes", nil, "Routes to inspect (overrides config)")
	flags.BoolVar(&f.discover, "discover", false, "Discover routes by crawling the base URL")
	flags.StringVarP(&f.outDir, "out", "o", "", "Directory for generated reports")
	flags.BoolVar(&f.screenshots, "screenshots", false, "Capture evidence screenshots")
	flags.StringVar(&f.controlURL, "control-url", "", "DevTools URL of an already-running browser")
	flags.StringVar(&f.dataDir, "data-dir", "data", "Directory for run statistics")
	flags.StringVar(&f.failOn, "fail-on", "critical", "Exit non-zero when issues at or above this severity exist: critical, major, minor or none")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runInspection(f *runFlags) error {
	loadEnv()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	browser, err := inspector.Launch(inspector.Config{
		ControlURL:  f.controlURL,
		NavTimeout:  cfg.NavTimeout(),
		SettleDelay: cfg.SettleDelay(),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	start := time.Now()
	results, err := runner.New(cfg, browser, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	viewportNames := make([]string, len(cfg.Viewports))
	for i, vp := range cfg.Viewports {
		viewportNames[i] = vp.Name
	}
	routeNames := collectRoutes(results)

	rep := report.Build(results, report.Metadata{
		GeneratedAt: time.Now().UTC(),
		BaseURL:     cfg.BaseURL,
		Routes:      routeNames,
		Viewports:   viewportNames,
		Duration:    time.Since(start).Round(time.Second).String(),
	})

	if err := report.WriteAll(rep, cfg.ReportDir); err != nil {
		logger.Error("failed to write reports", "error", err)
	} else {
		logger.Info("reports written", "dir", cfg.ReportDir)
	}

	printSummary(rep)
	recordRun(f.dataDir, rep, logger)

	return checkFailOn(f.failOn, rep)
}

func resolveConfig(f *runFlags) (runner.Config, error) {
	cfg := runner.DefaultConfig()
	if f.configPath != "" {
		loaded, err := runner.LoadConfig(f.configPath)
		if err != nil {
			return runner.Config{}, err
		}
		cfg = loaded
	}

	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	} else if env := os.Getenv("INSPECT_BASE_URL"); env != "" && f.configPath == "" {
		cfg.BaseURL = env
	}
	if len(f.routes) > 0 {
		cfg.Routes = f.routes
	}
	if f.discover {
		cfg.DiscoverRoutes = true
	}
	if f.outDir != "" {
		cfg.ReportDir = f.outDir
	}
	if f.screenshots {
		cfg.Screenshots = true
	}
	return cfg, nil
}

func collectRoutes(results []runner.Result) []string {
	seen := make(map[string]bool)
	var routes []string
	for _, res := range results {
		if !seen[res.Route] {
			seen[res.Route] = true
			routes = append(routes, res.Route)
		}
	}
	return routes
}

func printSummary(rep *report.Report) {
	fmt.Printf("\nInspected %d cells: %d issues (%d critical, %d major, %d minor)\n",
		rep.Summary.TotalCells,
		rep.Summary.TotalIssues,
		rep.Summary.BySeverity["critical"],
		rep.Summary.BySeverity["major"],
		rep.Summary.BySeverity["minor"])
	for _, rec := range rep.Recommendations {
		fmt.Printf("  [%s] %s\n", rec.Priority, rec.Message)
	}
}

func recordRun(dataDir string, rep *report.Report, logger *slog.Logger) {
	storage, err := stats.NewStorage(dataDir)
	if err != nil {
		logger.Warn("failed to open stats storage", "error", err)
		return
	}
	storage.RecordRun(
		rep.Summary.TotalCells,
		rep.Summary.BySeverity["critical"],
		rep.Summary.BySeverity["major"],
		rep.Summary.BySeverity["minor"],
		rep.Summary.CellsWithErrors,
	)
	// The background writer would race process exit.
	if err := storage.Flush(); err != nil {
		logger.Warn("failed to persist run statistics", "error", err)
	}
}

func checkFailOn(failOn string, rep *report.Report) error {
	var floor []severity.Severity
	switch failOn {
	case "none":
		return nil
	case "minor":
		floor = []severity.Severity{severity.Critical, severity.Major, severity.Minor}
	case "major":
		floor = []severity.Severity{severity.Critical, severity.Major}
	case "critical":
		floor = []severity.Severity{severity.Critical}
	default:
		return fmt.Errorf("invalid --fail-on value %q", failOn)
	}

	total := 0
	for _, sev := range floor {
		total += rep.Summary.BySeverity[string(sev)]
	}
	if total > 0 {
		return &exitErr{
			code: 2,
			msg:  fmt.Sprintf("found %d issues at or above severity %q", total, failOn),
		}
	}
	return nil
}

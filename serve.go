package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/logging"
	"github.com/ui-inspector/backend/middleware"
	"github.com/ui-inspector/backend/report"
	"github.com/ui-inspector/backend/runner"
	"github.com/ui-inspector/backend/stats"
)

type serveFlags struct {
	port       string
	configPath string
	controlURL string
	dataDir    string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspection HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.port, "port", "p", "", "Listen port (defaults to PORT env var or 8082)")
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to YAML config file with inspection defaults")
	flags.StringVar(&f.controlURL, "control-url", "", "DevTools URL of an already-running browser")
	flags.StringVar(&f.dataDir, "data-dir", "data", "Directory for run statistics")

	return cmd
}

func setupGinMode() {
	// Set Gin mode based on environment variable
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func serve(f *serveFlags) error {
	loadEnv()
	setupGinMode()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	baseCfg := runner.DefaultConfig()
	if f.configPath != "" {
		loaded, err := runner.LoadConfig(f.configPath)
		if err != nil {
			return err
		}
		baseCfg = loaded
	}

	browser, err := inspector.Launch(inspector.Config{
		ControlURL:  f.controlURL,
		NavTimeout:  baseCfg.NavTimeout(),
		SettleDelay: baseCfg.SettleDelay(),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	// Inspection runs hold a browser for minutes, so the bucket is small.
	rateLimiter := middleware.NewRateLimiter(0.2, 2)

	// Initialize statistics
	apiStats := logging.Initialize()

	runStats, err := stats.NewStorage(f.dataDir)
	if err != nil {
		return fmt.Errorf("failed to open stats storage: %w", err)
	}
	// Drop months older than the retention window before serving them.
	runStats.Cleanup()

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler())
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(middleware.StatsMiddleware(apiStats))

	srv := &server{
		baseCfg: baseCfg,
		browser: browser,
		logger:  logger,
		stats:   runStats,
	}

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		api.POST("/inspect", srv.inspect)

		// Statistics endpoint: request counters plus monthly run totals
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, statisticsPayload(apiStats, runStats))
		})

		api.GET("/report", srv.latestReport)
	}

	// Get port from environment variable or use default
	port := f.port
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8082" // Default port
	}

	logger.Info("server starting", "addr", "http://localhost:"+port)
	if err := r.Run(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

type server struct {
	baseCfg runner.Config
	browser *inspector.Browser
	logger  *slog.Logger
	stats   *stats.Storage
}

// inspectRequest narrows the run config to what API callers may vary.
type inspectRequest struct {
	BaseURL     string               `json:"baseUrl" binding:"required,url"`
	Routes      []string             `json:"routes"`
	Discover    bool                 `json:"discover"`
	Viewports   []inspector.Viewport `json:"viewports"`
	Screenshots bool                 `json:"screenshots"`
}

func (s *server) inspect(c *gin.Context) {
	var req inspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid inspection request: " + err.Error(),
		})
		return
	}
	c.Set("inspect_target", req.BaseURL)

	cfg := s.baseCfg
	cfg.BaseURL = req.BaseURL
	if len(req.Routes) > 0 {
		cfg.Routes = req.Routes
	}
	cfg.DiscoverRoutes = req.Discover
	if len(req.Viewports) > 0 {
		cfg.Viewports = req.Viewports
	}
	cfg.Screenshots = req.Screenshots

	start := time.Now()
	results, err := runner.New(cfg, s.browser, s.logger).Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Inspection failed: " + err.Error(),
		})
		return
	}

	viewportNames := make([]string, len(cfg.Viewports))
	for i, vp := range cfg.Viewports {
		viewportNames[i] = vp.Name
	}

	rep := report.Build(results, report.Metadata{
		GeneratedAt: time.Now().UTC(),
		BaseURL:     cfg.BaseURL,
		Routes:      collectRoutes(results),
		Viewports:   viewportNames,
		Duration:    time.Since(start).Round(time.Second).String(),
	})

	// Persist alongside the API response so /api/report can serve it later.
	if err := report.WriteJSON(rep, latestReportPath(cfg.ReportDir)); err != nil {
		s.logger.Warn("failed to persist report", "error", err)
	}

	s.stats.RecordRun(
		rep.Summary.TotalCells,
		rep.Summary.BySeverity["critical"],
		rep.Summary.BySeverity["major"],
		rep.Summary.BySeverity["minor"],
		rep.Summary.CellsWithErrors,
	)

	c.JSON(http.StatusOK, rep)
}

func (s *server) latestReport(c *gin.Context) {
	data, err := os.ReadFile(latestReportPath(s.baseCfg.ReportDir))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No report available yet",
		})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// statisticsPayload merges API request counters with the persisted monthly
// run totals.
func statisticsPayload(apiStats *logging.Statistics, runStats *stats.Storage) map[string]interface{} {
	resp := apiStats.GetStatistics()
	resp["currentMonth"] = runStats.GetCurrentStats()

	months := make(map[string]stats.MonthlyStats)
	for _, m := range runStats.GetAllMonths() {
		if ms, ok := runStats.GetMonthlyStats(m); ok {
			months[m] = ms
		}
	}
	resp["months"] = months
	return resp
}

func latestReportPath(dir string) string {
	os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "report.json")
}

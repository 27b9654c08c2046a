package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"transcheck/internal/adapters/db/sqlite"
	"transcheck/internal/adapters/exporter/csvreport"
	"transcheck/internal/adapters/exporter/htmlreport"
	expreg "transcheck/internal/adapters/exporter/registry"
	"transcheck/internal/adapters/exporter/textexport"
	"transcheck/internal/adapters/extractor/docx"
	"transcheck/internal/adapters/extractor/htmldoc"
	"transcheck/internal/adapters/extractor/plaintext"
	extreg "transcheck/internal/adapters/extractor/registry"
	"transcheck/internal/adapters/review/factory"
	"transcheck/internal/api/httpapi"
	"transcheck/internal/checks"
	"transcheck/internal/config"
	"transcheck/internal/usecase/analyze"
	"transcheck/internal/usecase/jobs"
)

func main() {
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		slog.Error("data dir", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("db dir", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		slog.Error("sqlite init", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	extractors := extreg.New()
	extractors.Register(plaintext.New())
	extractors.Register(docx.New())
	extractors.Register(htmldoc.New())

	exporters := expreg.New()
	exporters.Register(csvreport.New())
	exporters.Register(htmlreport.New())
	exporters.Register(textexport.New())

	reviewer, err := factory.FromConfig(cfg.Review)
	if err != nil {
		slog.Error("review config", "error", err)
		os.Exit(1)
	}
	if reviewer == nil {
		slog.Info("review mode disabled: no api key configured")
	}

	runs := sqlite.NewRunRepo(db)
	glossaries := sqlite.NewGlossaryRepo(db)

	analyzer := analyze.New(analyze.Deps{
		Extractors: extractors,
		Checks:     checkOptions(cfg.Checks),
		Reviewer:   reviewer,
		BatchSize:  cfg.Review.BatchSize,
	})

	runner := jobs.NewRunner(jobs.Deps{
		Runs:      runs,
		Analyzer:  analyzer,
		DataDir:   cfg.DataDir,
		Retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	})
	runner.StartRetentionSweep()
	defer runner.StopRetentionSweep()

	api := httpapi.NewServer(httpapi.Deps{
		Runs:       runs,
		Glossaries: glossaries,
		Runner:     runner,
		Exporters:  exporters,
		Reviewer:   reviewer,
		MaxUpload:  cfg.Checks.MaxUploadBytes,
		DB:         db,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func checkOptions(c config.ChecksConfig) checks.Options {
	opts := checks.Options{
		UntranslatedThreshold: c.UntranslatedThreshold,
		RatioMinFactor:        c.RatioMinFactor,
		RatioMaxFactor:        c.RatioMaxFactor,
		RatioFallbackMin:      c.RatioFallbackMin,
		RatioFallbackMax:      c.RatioFallbackMax,
		NameScoreThreshold:    c.NameScoreThreshold,
	}
	if c.GroupingWithoutDecimal == "decimal" {
		opts.Grouping = checks.GroupingIsDecimal
	} else {
		opts.Grouping = checks.GroupingIsGrouping
	}
	return opts
}

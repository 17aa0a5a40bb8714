package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nimdanitro/sensorview/pkg/config"
	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"github.com/nimdanitro/sensorview/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Parse environment and command line flags
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.Version {
		fmt.Printf("sensorview %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	schema, err := telemetry.ParseSchema(cfg.Schema)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// Setup Otel
	shutdown, err := setupOTelSDK(ctx, cfg.OTel)
	defer shutdown(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot set up OpenTelemetry:", err)
		return 1
	}

	// Initialize logger
	logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile, !cfg.Plain)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer closeLog()
	defer logger.Sync()
	logger.Info("starting up", zap.String("version", version), zap.String("commit", commit), zap.String("buildDate", date))

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := sensorapi.NewMetrics(reg)
	if err != nil {
		logger.Error("cannot register metrics", zap.Error(err))
		return 1
	}
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, reg, logger)
	}

	// create the fetcher
	client, err := sensorapi.NewFetcher(
		sensorapi.WithLogger(logger),
		sensorapi.WithBaseURL(cfg.APIURL),
		sensorapi.WithTokenSource(cfg.TokenSource()),
		sensorapi.WithDevices(cfg.Devices),
		sensorapi.WithTimeout(cfg.Timeout),
		sensorapi.WithMetrics(metrics),
	)
	if err != nil {
		logger.Error("cannot create fetcher", zap.Error(err))
		return 1
	}

	if cfg.Plain {
		return runPlain(ctx, client, schema, cfg.Page, logger)
	}

	p := tea.NewProgram(view.New(ctx, client, schema, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("interactive view failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// runPlain fetches once and prints the requested 1-based page.
func runPlain(ctx context.Context, f sensorapi.Fetcher, schema telemetry.Schema, page int, logger *zap.Logger) int {
	state := view.Load(ctx, f, schema, logger)
	for i := 1; i < page; i++ {
		state = state.NextPage()
	}

	if err := view.Render(os.Stdout, state); err != nil {
		logger.Error("cannot render table", zap.Error(err))
		return 1
	}
	if state.Phase() == view.PhaseError {
		return 1
	}
	return 0
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}

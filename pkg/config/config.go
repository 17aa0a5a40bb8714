package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/nimdanitro/sensorview/pkg/sensorapi"
	"github.com/spf13/pflag"
)

// Config is read from SENSORVIEW_* variables first; flags override them.
type Config struct {
	APIURL      string        `env:"SENSORVIEW_API_URL"`
	Token       string        `env:"SENSORVIEW_ID_TOKEN"`
	TokenFile   string        `env:"SENSORVIEW_ID_TOKEN_FILE"`
	Schema      string        `env:"SENSORVIEW_SCHEMA"       envDefault:"tagged"`
	Devices     bool          `env:"SENSORVIEW_DEVICES"      envDefault:"true"`
	Timeout     time.Duration `env:"SENSORVIEW_TIMEOUT"      envDefault:"30s"`
	Plain       bool          `env:"SENSORVIEW_PLAIN"`
	Page        int           `env:"SENSORVIEW_PAGE"         envDefault:"1"`
	LogFile     string        `env:"SENSORVIEW_LOG_FILE"`
	LogLevel    string        `env:"SENSORVIEW_LOG_LEVEL"    envDefault:"info"`
	MetricsAddr string        `env:"SENSORVIEW_METRICS_ADDR"`
	OTel        bool          `env:"SENSORVIEW_OTEL"`
	Version     bool
}

// Load parses the environment and then args. pflag.ErrHelp is returned
// unchanged when help was requested.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fs := pflag.NewFlagSet("sensorview", pflag.ContinueOnError)
	fs.StringVarP(&cfg.APIURL, "api-url", "u", cfg.APIURL, "Base URL of the sensor API ("+sensorapi.DefaultURLVar+")")
	fs.StringVarP(&cfg.Token, "token", "t", cfg.Token, "Identity token sent as the Authorization header")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "File holding the identity token, read on every fetch")
	fs.StringVar(&cfg.Schema, "schema", cfg.Schema, "Reading schema: tagged or flat")
	fs.BoolVar(&cfg.Devices, "devices", cfg.Devices, "Also fetch the device registry")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout, 0 disables")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "Print one page and exit instead of starting the interactive view")
	fs.IntVarP(&cfg.Page, "page", "p", cfg.Page, "Page to print in plain mode (1-based)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write JSON logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address")
	fs.BoolVar(&cfg.OTel, "otel", cfg.OTel, "Export traces, metrics and logs over OTLP/HTTP")
	fs.BoolVarP(&cfg.Version, "version", "v", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Token != "" && cfg.TokenFile != "" {
		return nil, fmt.Errorf("--token and --token-file are mutually exclusive")
	}
	if cfg.Page < 1 {
		return nil, fmt.Errorf("--page must be at least 1, got %d", cfg.Page)
	}
	return cfg, nil
}

// TokenSource returns the configured token source, or nil when none is set.
func (c *Config) TokenSource() sensorapi.TokenSource {
	switch {
	case c.TokenFile != "":
		return sensorapi.FileToken(c.TokenFile)
	case c.Token != "":
		return sensorapi.StaticToken(c.Token)
	}
	return nil
}

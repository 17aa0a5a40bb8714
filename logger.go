package main

import (
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger tees a JSON core and the OTel bridge. The JSON core writes to
// logFile when set, otherwise to stderr unless the terminal is taken by the
// interactive view.
func newLogger(level, logFile string, interactive bool) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	closeFn := func() {}
	var sink zapcore.WriteSyncer
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		closeFn = func() { _ = f.Close() }
	case !interactive:
		sink = zapcore.Lock(os.Stderr)
	}

	jsonCore := zapcore.NewNopCore()
	if sink != nil {
		jsonCore = zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, lvl)
	}

	core := zapcore.NewTee(
		jsonCore,
		otelzap.NewCore("github.com/nimdanitro/sensorview", otelzap.WithLoggerProvider(global.GetLoggerProvider())),
	)
	return zap.New(core), closeFn, nil
}

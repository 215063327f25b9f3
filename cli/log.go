// Package cli implements the jdeobf command-line interface.
//
// Every command reads a jar, builds its index and works on it:
//   - index: print index statistics and the jar fingerprint
//   - resolve: show how a member reference resolves
//   - rename: validate and apply a rename, optionally over a ProGuard mapping
//   - retrace: deobfuscate a stack trace
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a TOML configuration file. The logger and the configuration travel
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/swind/go-jdeobf/config"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...interface{}) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

// indexProgress reports the stages of an index build at debug level.
type indexProgress struct {
	logger *log.Logger
	total  int
}

func (p *indexProgress) Init(total int, title string) {
	p.total = total
	p.logger.Debug(title, "stages", total)
}

func (p *indexProgress) Step(n int, message string) {
	p.logger.Debugf("[%d/%d] %s", n, p.total, message)
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

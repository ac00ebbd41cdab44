package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"brandscope/internal/config"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "brandscope",
		Short:         "Brand intake and website insights dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := serveCmd()
	root.AddCommand(serve, migrateCmd())
	root.RunE = serve.RunE
	return root
}

// setup loads the config and builds the process logger. A config error is
// returned alongside a usable logger so it can be reported.
func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	log := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return cfg, log, fmt.Errorf("config: %w", err)
	}
	return cfg, log, nil
}

func newLogger(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "brandscope").Logger()
}

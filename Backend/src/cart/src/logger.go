package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogger configura el logger global. format "console" o "json"; vacio
// elige consola solo si stdout es una terminal.
func setupLogger(level, format string) error {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(logOutput(format, os.Stdout)).With().Timestamp().Logger()
	return nil
}

func logOutput(format string, f *os.File) io.Writer {
	console := format == "console"
	if format == "" {
		console = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !console {
		return f
	}
	return zerolog.ConsoleWriter{Out: colorable.NewColorable(f), TimeFormat: time.RFC3339}
}

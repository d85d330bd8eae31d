package main

import (
	"io"
	"os"

	"github.com/germanamz/tasksolver/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger points the global logger at stderr in the configured format.
// stdout stays free for answers and the MCP stream.
func initLogger(cfg config.LogConfig) error {
	var w io.Writer = os.Stderr
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = log.Output(w)

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// Command tasksolver solves tasks with an LLM behind a relay and ships a
// terminal calculator.
//
// Usage:
//
//	tasksolver serve                 run the relay
//	tasksolver solve [task...]       one-shot solve
//	tasksolver chat                  interactive solve with corrections
//	tasksolver calc [expression]     calculator (TUI without arguments)
//	tasksolver key set|status|clear  manage the relay's API key
//	tasksolver mcp                   serve calculator and solver tools over MCP stdio
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/tasksolver/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// app carries what every subcommand needs after the root pre-run.
type app struct {
	configPath string
	envFile    string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tasksolver",
		Short:         "Solve tasks with an LLM and do quick math",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a yaml or toml config file (default: tasksolver.yaml if present)")
	pf.StringVar(&a.envFile, "env", ".env", "path to .env file (ignored if missing)")
	pf.String(config.KeyLogLevel, "info", "log level: trace, debug, info, warn, error")
	pf.String(config.KeyLogFormat, "text", "log format: text or json")
	pf.String(config.KeyRelayURL, config.DefaultRelayURL, "relay base URL used by client commands")

	root.AddCommand(
		newServeCmd(a),
		newSolveCmd(a),
		newChatCmd(a),
		newCalcCmd(),
		newKeyCmd(a),
		newMCPCmd(a),
	)
	return root
}

// load reads .env, the config file, then environment and flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	var (
		cfg config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOptional("tasksolver.yaml")
	}
	if err != nil {
		return err
	}

	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg.Overlay(v)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := initLogger(cfg.Log); err != nil {
		return err
	}

	log.Debug().
		Str("config", a.configPath).
		Str("relay", cfg.RelayURL).
		Msg("configuration loaded")

	a.cfg = cfg
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"github.com/germanamz/tasksolver/pkg/tools/mcpserver"
	"github.com/germanamz/tasksolver/pkg/tools/tasktools"
	"github.com/germanamz/tasksolver/pkg/tools/toolbox"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	var calcOnly bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator and solver as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tb *toolbox.ToolBox
			if calcOnly {
				tb = tasktools.ToolBox(nil)
			} else {
				s, err := newSolver(a.cfg, nil)
				if err != nil {
					return err
				}
				tb = tasktools.ToolBox(s.session)
			}

			logger := log.Logger.With().Str("component", "mcp").Logger()
			srv := mcpserver.New("tasksolver", version, logger)
			srv.RegisterToolBox(tb)

			logger.Info().Int("tools", len(tb.Tools())).Msg("serving on stdio")
			return srv.ServeStdio(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&calcOnly, "calc-only", false, "expose only the calculator (no relay needed)")
	return cmd
}

// Package tools exposes tasksolver features as tools.
//
// Sub-packages:
//   - [github.com/germanamz/tasksolver/pkg/tools/toolbox]: Tool type and ToolBox registry
//   - [github.com/germanamz/tasksolver/pkg/tools/tasktools]: calculate, solve_task and new_task
//   - [github.com/germanamz/tasksolver/pkg/tools/mcpserver]: serves a toolbox over MCP (official Go SDK)
package tools

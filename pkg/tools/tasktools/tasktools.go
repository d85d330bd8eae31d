// Package tasktools builds the tools tasksolver exposes to MCP clients: the
// calculator and the conversational task solver.
package tasktools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/calculator"
	"github.com/germanamz/tasksolver/pkg/tools/toolbox"
)

// Tool names.
const (
	NameCalculate = "calculate"
	NameSolveTask = "solve_task"
	NameNewTask   = "new_task"
)

var calculateSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"expression": {"type": "string", "description": "Arithmetic expression, e.g. \"2 + 3 × 4\" or \"sqrt(16) ^ 2\". Functions: sin cos tan log ln sqrt; constant: pi."},
		"keys": {"type": "array", "items": {"type": "string"}, "description": "Calculator key presses instead of an expression, e.g. [\"7\",\"+\",\"3\",\"=\"]."}
	}
}`)

type calculateInput struct {
	Expression string   `json:"expression"`
	Keys       []string `json:"keys"`
}

// Calculate evaluates an expression, or replays key presses on a fresh
// calculator and returns its display.
func Calculate() toolbox.Tool {
	return toolbox.Tool{
		Name:        NameCalculate,
		Description: "Evaluate an arithmetic or scientific expression and return the result.",
		InputSchema: calculateSchema,
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			var in calculateInput
			if err := toolbox.DecodeInput(input, &in); err != nil {
				return "", err
			}

			switch {
			case len(in.Keys) > 0:
				return calculator.NewState().PressAll(in.Keys...)
			case strings.TrimSpace(in.Expression) != "":
				v, err := calculator.Eval(in.Expression)
				if err != nil {
					return "", err
				}
				return calculator.FormatResult(v), nil
			}
			return "", errors.New("expression or keys is required")
		},
	}
}

var solveSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"task": {"type": "string", "description": "Problem statement or a correction to the previous answer. Required, also when images are attached."},
		"images": {"type": "array", "items": {"type": "string"}, "description": "Base64 images or data URIs attached to the task."},
		"new_task": {"type": "boolean", "description": "Discard the previous conversation before sending."}
	},
	"required": ["task"]
}`)

type solveInput struct {
	Task    string   `json:"task"`
	Images  []string `json:"images"`
	NewTask bool     `json:"new_task"`
}

// SolveTask sends a turn through the session. Follow-up calls continue the
// same conversation until new_task is set or NewTask is called.
func SolveTask(s *assembler.Session) toolbox.Tool {
	return toolbox.Tool{
		Name:        NameSolveTask,
		Description: "Solve a task, optionally with images. Follow-up calls are treated as corrections with the full conversation as context.",
		InputSchema: solveSchema,
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in solveInput
			if err := toolbox.DecodeInput(input, &in); err != nil {
				return "", err
			}
			if in.NewTask {
				s.Reset()
			}

			reply, err := s.Send(ctx, in.Task, in.Images...)
			if err != nil {
				var se *assembler.SubmitError
				if errors.As(err, &se) {
					return "", errors.New(se.Notice())
				}
				return "", err
			}
			return reply.Text(), nil
		},
	}
}

// NewTask clears the session's conversation.
func NewTask(s *assembler.Session) toolbox.Tool {
	return toolbox.Tool{
		Name:        NameNewTask,
		Description: "Start a new task, discarding the current conversation.",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			s.Reset()
			return "conversation cleared", nil
		},
	}
}

// ToolBox returns the calculator tool, plus the solver tools when s is not
// nil.
func ToolBox(s *assembler.Session) *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(Calculate())
	if s != nil {
		tb.Register(SolveTask(s), NewTask(s))
	}
	return tb
}

package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler runs a tool with its JSON arguments and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is a named operation with a JSON Schema for its arguments.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// DecodeInput unmarshals input into dst. An empty input decodes as {}.
func DecodeInput(input json.RawMessage, dst any) error {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	if err := json.Unmarshal(input, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

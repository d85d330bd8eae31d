// Package providers groups the upstream LLM adapters used by the relay.
//
// Sub-packages:
//   - [github.com/germanamz/tasksolver/pkg/providers/openrouter]: OpenRouter chat completions via go-openai
package providers

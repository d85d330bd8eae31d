// Package openrouter calls the OpenRouter chat-completions API through the
// go-openai client. Every request carries a fixed system prompt and the
// OpenRouter attribution headers.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/germanamz/tasksolver/pkg/assembler"
	openai "github.com/sashabaranov/go-openai"
)

// Defaults.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o"
	DefaultReferer = "https://github.com/germanamz/tasksolver"
	DefaultTitle   = "Task Solver"
)

// SystemPrompt asks for general Python solutions that read their input.
const SystemPrompt = "You are an advanced AI assistant. Analyze the task and images carefully. " +
	"When providing code solutions, ALWAYS use Python. The code MUST NOT contain hardcoded values or usage examples. " +
	"Instead, it should explicitly prompt the user for input (e.g. using `input()`). " +
	"The code should be general-purpose to solve any instance of the problem, " +
	"using the provided example only to understand the logic."

// ErrEmptyChoices is returned when a 2xx reply has no choices.
var ErrEmptyChoices = errors.New("openrouter: empty choices in response")

// APIError is a non-2xx reply from OpenRouter.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenRouter API error: %d - %s", e.Status, e.Body)
}

// Config configures a Client. Zero fields take the defaults.
type Config struct {
	BaseURL      string
	Model        string
	Referer      string
	Title        string
	SystemPrompt string
	Timeout      time.Duration
	Transport    http.RoundTripper // Base transport; nil means http.DefaultTransport.
}

// Client sends conversations upstream. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Referer == "" {
		cfg.Referer = DefaultReferer
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = SystemPrompt
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &headerTransport{
				base: base,
				headers: map[string]string{
					"HTTP-Referer": cfg.Referer,
					"X-Title":      cfg.Title,
				},
			},
		},
	}
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.cfg.Model }

// Complete sends the system prompt followed by msgs with apiKey and returns
// the content of the first choice. A non-2xx reply is returned as *APIError
// carrying the upstream status and raw body.
func (c *Client) Complete(ctx context.Context, apiKey string, msgs []assembler.ProviderMessage) (string, error) {
	conf := openai.DefaultConfig(apiKey)
	conf.BaseURL = c.cfg.BaseURL
	conf.HTTPClient = c.http
	client := openai.NewClientWithConfig(conf)

	sink := &errorBody{}
	ctx = context.WithValue(ctx, errorBodyKey{}, sink)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: c.buildMessages(msgs),
	})
	if err != nil {
		return "", c.wrapError(err, sink)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildMessages(msgs []assembler.ProviderMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, 1+len(msgs))
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: c.cfg.SystemPrompt,
	})
	for _, m := range msgs {
		out = append(out, ToOpenAI(m))
	}
	return out
}

// ToOpenAI converts a provider message into the go-openai shape.
func ToOpenAI(m assembler.ProviderMessage) openai.ChatCompletionMessage {
	if !m.Multipart() {
		return openai.ChatCompletionMessage{Role: m.Role.String(), Content: m.Text}
	}

	parts := make([]openai.ChatMessagePart, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch p.Type {
		case assembler.PartTypeImage:
			url := ""
			if p.ImageURL != nil {
				url = p.ImageURL.URL
			}
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		default:
			// go-openai drops an empty text field, which the API rejects.
			if p.Text == "" {
				continue
			}
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		}
	}
	return openai.ChatCompletionMessage{Role: m.Role.String(), MultiContent: parts}
}

func (c *Client) wrapError(err error, sink *errorBody) error {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError

	status := 0
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == 0 {
		return fmt.Errorf("openrouter: %w", err)
	}

	body := sink.text
	if body == "" {
		body = err.Error()
	}
	return &APIError{Status: status, Body: body}
}

package openrouter_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
	"github.com/germanamz/tasksolver/pkg/providers/openrouter"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *openrouter.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return openrouter.New(openrouter.Config{BaseURL: srv.URL})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func completion(text string) map[string]any {
	return map[string]any{
		"id":     "gen-1",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
	}
}

func TestComplete_RequestShape(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))
		assert.Equal(t, openrouter.DefaultReferer, r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Task Solver", r.Header.Get("X-Title"))

		req := readBody(t, r)
		assert.Equal(t, "openai/gpt-4o", req["model"])

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 3)

		system, _ := msgs[0].(map[string]any)
		assert.Equal(t, "system", system["role"])
		assert.Contains(t, system["content"], "ALWAYS use Python")
		assert.Contains(t, system["content"], "input()")

		history, _ := msgs[1].(map[string]any)
		assert.Equal(t, "assistant", history["role"])
		assert.Equal(t, "earlier answer", history["content"])

		turn, _ := msgs[2].(map[string]any)
		parts, ok := turn["content"].([]any)
		require.True(t, ok)
		require.Len(t, parts, 2)
		img, _ := parts[1].(map[string]any)
		assert.Equal(t, "image_url", img["type"])
		assert.Equal(t, map[string]any{"url": "data:image/jpeg;base64,AAA"}, img["image_url"])

		writeJSON(t, w, completion("print(int(input()) * 2)"))
	})

	got, err := client.Complete(context.Background(), "sk-or-test", []assembler.ProviderMessage{
		{Role: role.Assistant, Text: "earlier answer"},
		assembler.ToProviderMessage(message.New(role.User, "double it", "AAA")),
	})
	require.NoError(t, err)
	assert.Equal(t, "print(int(input()) * 2)", got)
}

func TestComplete_StatusPassthrough(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":{"message":"Insufficient credits","code":402}}`)
	})

	_, err := client.Complete(context.Background(), "sk", nil)

	var apiErr *openrouter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.Status)
	assert.Equal(t, `{"error":{"message":"Insufficient credits","code":402}}`, apiErr.Body)
	assert.Equal(t, `OpenRouter API error: 402 - {"error":{"message":"Insufficient credits","code":402}}`, apiErr.Error())
}

func TestComplete_NonJSONError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.Complete(context.Background(), "sk", nil)

	var apiErr *openrouter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream exploded", apiErr.Body)
}

func TestComplete_EmptyChoices(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []any{}})
	})

	_, err := client.Complete(context.Background(), "sk", nil)
	assert.ErrorIs(t, err, openrouter.ErrEmptyChoices)
}

func TestComplete_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := openrouter.New(openrouter.Config{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), "sk", nil)

	require.Error(t, err)
	var apiErr *openrouter.APIError
	assert.NotErrorAs(t, err, &apiErr)
}

func TestNew_Overrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Custom", r.Header.Get("X-Title"))

		req := readBody(t, r)
		assert.Equal(t, "anthropic/claude-sonnet", req["model"])
		msgs, _ := req["messages"].([]any)
		system, _ := msgs[0].(map[string]any)
		assert.Equal(t, "be brief", system["content"])

		writeJSON(t, w, completion("ok"))
	}))
	t.Cleanup(srv.Close)

	client := openrouter.New(openrouter.Config{
		BaseURL:      srv.URL + "/",
		Model:        "anthropic/claude-sonnet",
		Title:        "Custom",
		SystemPrompt: "be brief",
	})
	assert.Equal(t, "anthropic/claude-sonnet", client.Model())

	got, err := client.Complete(context.Background(), "sk", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestToOpenAI(t *testing.T) {
	text := openrouter.ToOpenAI(assembler.ProviderMessage{Role: role.User, Text: "hi"})
	assert.Equal(t, "user", text.Role)
	assert.Equal(t, "hi", text.Content)
	assert.Empty(t, text.MultiContent)

	multi := openrouter.ToOpenAI(assembler.ToProviderMessage(message.New(role.User, "see", "data:image/png;base64,Z")))
	assert.Empty(t, multi.Content)
	require.Len(t, multi.MultiContent, 2)
	assert.Equal(t, "see", multi.MultiContent[0].Text)
	assert.Equal(t, "data:image/png;base64,Z", multi.MultiContent[1].ImageURL.URL)
}

func TestToOpenAI_NoEmptyTextParts(t *testing.T) {
	msg := openrouter.ToOpenAI(assembler.ToProviderMessage(message.New(role.User, "", "AAA")))

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "user",
		"content": [{"type": "image_url", "image_url": {"url": "data:image/jpeg;base64,AAA"}}]
	}`, string(data))

	for _, p := range msg.MultiContent {
		if p.Type == openai.ChatMessagePartTypeText {
			assert.NotEmpty(t, p.Text)
		}
	}
}

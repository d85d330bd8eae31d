package openrouter

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error reply is kept.
const maxErrorBody = 64 << 10

type errorBodyKey struct{}

// errorBody receives the raw body of a non-2xx reply.
type errorBody struct {
	text string
}

// headerTransport adds fixed headers to every request and copies non-2xx
// bodies into the errorBody found in the request context.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 300 {
		return resp, err
	}

	sink, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	sink.text = strings.TrimSpace(string(data))
	resp.Body = io.NopCloser(bytes.NewReader(data))

	return resp, nil
}

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultOpenAIURL is the chat completions endpoint.
	DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-3.5-turbo"
)

// OpenAI implements Completer against an OpenAI-compatible chat completions
// API. Every request asks for temperature 0 so a report yields a stable
// summary. Requests are never retried.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a completer. Empty model or baseURL fall back to the
// defaults; an empty apiKey is accepted and rejected on first use.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	if o.apiKey == "" {
		return "", errors.WithHint(
			errors.Wrap(ErrAuthentication, "no API key configured"),
			"set OpenAIKey in config.json next to the executable, or OPENAI_API_KEY",
		)
	}

	body := openaiRequest{
		Model:       o.model,
		Messages:    make([]openaiMessage, 0, len(messages)),
		Temperature: 0,
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, openaiMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "marshaling request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "sending request"), ErrNetwork)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "reading response"), ErrNetwork)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return "", errors.Wrapf(ErrAuthentication, "status %d: %s", httpResp.StatusCode, apiErrorMessage(respBody))
	case httpResp.StatusCode != http.StatusOK:
		return "", errors.Wrapf(ErrNetwork, "API error (status %d): %s", httpResp.StatusCode, apiErrorMessage(respBody))
	}

	var result openaiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Mark(errors.Wrap(err, "parsing response"), ErrNetwork)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}

// apiErrorMessage extracts error.message from an API error body, falling
// back to the raw body.
func apiErrorMessage(body []byte) string {
	var e openaiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "no response body"
	}
	return msg
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(server *httptest.Server, key string) *OpenAI {
	o := NewOpenAI(key, "gpt-test", server.URL)
	o.client = server.Client()
	return o
}

func TestOpenAIComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "Fix parser\n\nDetails."}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := newTestOpenAI(server, "test-key")
	reply, err := o.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "diff"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fix parser\n\nDetails.", reply)

	assert.Equal(t, "gpt-test", got["model"])
	temperature, ok := got["temperature"]
	require.True(t, ok, "temperature must always be sent")
	assert.Equal(t, float64(0), temperature)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "diff", msgs[1].(map[string]any)["content"])
}

func TestOpenAIAuthError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
		}))

		o := newTestOpenAI(server, "bad-key")
		_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
		server.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAuthentication), "status %d: got %v", status, err)
		assert.Contains(t, err.Error(), "Incorrect API key provided")
	}
}

func TestOpenAIMissingKeySendsNothing(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	o := newTestOpenAI(server, "")
	_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Equal(t, 0, calls)
}

func TestOpenAIServerErrorIsNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	o := newTestOpenAI(server, "test-key")
	_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, 1, calls, "requests are not retried")
}

func TestOpenAITransportErrorIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	o := newTestOpenAI(server, "test-key")
	server.Close()

	_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
}

func TestOpenAIMalformedBodyIsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	o := newTestOpenAI(server, "test-key")
	_, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
}

func TestOpenAINoChoicesIsEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	o := newTestOpenAI(server, "test-key")
	reply, err := o.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})

	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestNewOpenAIDefaults(t *testing.T) {
	o := NewOpenAI("key", "", "")
	assert.Equal(t, DefaultModel, o.model)
	assert.Equal(t, DefaultOpenAIURL, o.baseURL)
}

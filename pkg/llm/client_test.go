package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigen-go/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/api/v1/",
		Model:   "test/model",
		Title:   "UI Generator",
		Timeout: 5 * time.Second,
	}
	return srv, NewClient(cfg, WithReferer("http://localhost:3000"))
}

func TestChatJSON_SendsRequest(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "http://localhost:3000", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "UI Generator", r.Header.Get("X-Title"))

		var req map[string]interface{}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "test/model", req["model"])
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, req["response_format"])
		assert.Equal(t, 0.2, req["temperature"])
		_, hasTopP := req["top_p"]
		assert.False(t, hasTopP)
		msgs, _ := req["messages"].([]interface{})
		if assert.Len(t, msgs, 2) {
			assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"code\":\"x\"}"}}]}`))
	})

	temp := 0.2
	out, err := client.ChatJSON(context.Background(), []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "make a login form"},
	}, &GenerationParams{Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, `{"code":"x"}`, out)
}

func TestChatJSON_EmptyContent(t *testing.T) {
	bodies := []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		`{"choices":[{"message":{"role":"assistant","content":""}}]}`,
	}
	for _, body := range bodies {
		body := body
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := client.ChatJSON(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
		assert.ErrorIs(t, err, ErrEmptyContent, body)
	}
}

func TestChatJSON_Non200(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})
	_, err := client.ChatJSON(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.NotContains(t, err.Error(), "rate limited")
}

func TestChatJSON_ContextCanceled(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ChatJSON(ctx, []Message{{Role: "user", Content: "hi"}}, nil)
	assert.Error(t, err)
}

func TestParamsFromConfig(t *testing.T) {
	assert.Nil(t, ParamsFromConfig(config.LLMGenerationConfig{}))

	gp := ParamsFromConfig(config.LLMGenerationConfig{TopP: 0.9, MaxTokens: 4096})
	require.NotNil(t, gp)
	assert.Nil(t, gp.Temperature)
	assert.Equal(t, 0.9, *gp.TopP)
	assert.Equal(t, 4096, *gp.MaxTokens)
}

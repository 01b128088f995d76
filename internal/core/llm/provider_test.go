package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_RequiresKeys(t *testing.T) {
	for _, typ := range []ProviderType{ProviderOpenAI, ProviderGroq, ProviderDeepSeek} {
		_, err := NewProvider(&ProviderConfig{Type: typ})
		assert.Error(t, err, "provider %s", typ)
	}

	_, err := NewProvider(&ProviderConfig{Type: "gemini", OpenAIKey: "k"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestNewProvider_Names(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Type: ProviderGroq, GroqKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())

	p, err = NewProvider(&ProviderConfig{OpenAIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", p.GetProviderName())
}

func TestCompatibleProvider_GenerateResponse(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hook: hi"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewCompatibleProvider("Test", srv.URL, "test-key", "m-1", 0, 0)
	svc := NewServiceWithProvider(p)

	out, err := svc.GenerateResponse(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "Hook: hi", out)
	assert.Equal(t, "m-1", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Content)
	assert.Equal(t, "Test", svc.GetProviderName())
}

func TestCompatibleProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewCompatibleProvider("Test", srv.URL, "k", "m", 0, 0)
	_, err := p.GenerateResponse(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "no response from Test")
}

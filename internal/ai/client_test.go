package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json array", `["What is a goroutine?", "Explain channels."]`, []string{"What is a goroutine?", "Explain channels."}},
		{"fenced json", "```json\n[\"Q1\", \" \", \"Q2\"]\n```", []string{"Q1", "Q2"}},
		{"numbered lines", "1. First question\n2) Second question\n\n- Third", []string{"First question", "Second question", "Third"}},
		{"empty", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuestions(tt.in))
		})
	}
}

func TestBuildPromptMentionsInputs(t *testing.T) {
	prompt := buildPrompt(QuestionRequest{
		JobDescription: "Senior Go engineer",
		Difficulty:     "difficult",
		Count:          12,
		FocusAreas:     []string{"kubernetes", "postgres"},
	})
	assert.Contains(t, prompt, "Senior Go engineer")
	assert.Contains(t, prompt, "exactly 12 interview questions")
	assert.Contains(t, prompt, "kubernetes, postgres")
	assert.Contains(t, prompt, "(no resume provided)")
}

func TestGenerateWithOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.2", body["model"])
		json.NewEncoder(w).Encode(map[string]any{"response": `["A", "B", "C"]`})
	}))
	defer srv.Close()

	c := NewClient(Settings{Provider: "ollama", OllamaURL: srv.URL}, srv.Client())
	questions, err := c.GenerateQuestions(context.Background(), QuestionRequest{JobDescription: "x", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, questions)
}

func TestGenerateWithOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "1. One\n2. Two"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(Settings{Provider: "openai", OpenAIKey: "sk-test", OpenAIURL: srv.URL}, srv.Client())
	questions, err := c.GenerateQuestions(context.Background(), QuestionRequest{JobDescription: "x", Count: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, questions)
}

func TestGenerateProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := NewClient(Settings{Provider: "anthropic", AnthropicKey: "k", AnthropicURL: srv.URL}, srv.Client())
	_, err := c.GenerateQuestions(context.Background(), QuestionRequest{Count: 6})
	assert.ErrorContains(t, err, "rate limited")

	_, err = NewClient(Settings{Provider: "openai"}, nil).GenerateQuestions(context.Background(), QuestionRequest{})
	assert.ErrorContains(t, err, "API key not configured")

	_, err = NewClient(Settings{Provider: "lmstudio"}, nil).GenerateQuestions(context.Background(), QuestionRequest{})
	assert.ErrorContains(t, err, "unsupported AI provider")
}

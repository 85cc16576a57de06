package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/khrees2412/mockprep/pkg/models"
)

// Settings selects the provider and its credentials
type Settings struct {
	Provider     string // openai, anthropic, ollama, gemini
	Model        string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
	OllamaURL    string

	// Base URLs, overridable for tests
	OpenAIURL    string
	AnthropicURL string
}

// QuestionRequest is everything the generator needs for one interview
type QuestionRequest struct {
	JobDescription string
	Resume         string
	Difficulty     string
	Count          int
	FocusAreas     []string
}

// Client generates interview questions with the configured LLM provider
type Client struct {
	settings Settings
	http     *http.Client
}

func NewClient(settings Settings, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if settings.OpenAIURL == "" {
		settings.OpenAIURL = "https://api.openai.com"
	}
	if settings.AnthropicURL == "" {
		settings.AnthropicURL = "https://api.anthropic.com"
	}
	if settings.OllamaURL == "" {
		settings.OllamaURL = "http://localhost:11434"
	}
	return &Client{settings: settings, http: httpClient}
}

// GenerateQuestions asks the provider for req.Count questions
func (c *Client) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]string, error) {
	prompt := buildPrompt(req)

	var (
		text string
		err  error
	)
	switch c.settings.Provider {
	case "openai":
		text, err = c.generateWithOpenAI(ctx, prompt)
	case "anthropic":
		text, err = c.generateWithAnthropic(ctx, prompt)
	case "ollama":
		text, err = c.generateWithOllama(ctx, prompt)
	case "gemini":
		text, err = c.generateWithGemini(ctx, prompt)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", c.settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	questions := ParseQuestions(text)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in %s response", c.settings.Provider)
	}
	if len(questions) > req.Count && req.Count > 0 {
		questions = questions[:req.Count]
	}
	return questions, nil
}

// buildPrompt creates the prompt for question generation
func buildPrompt(req QuestionRequest) string {
	resume := req.Resume
	if resume == "" {
		resume = "(no resume provided)"
	}
	focus := "general fit for the role"
	if len(req.FocusAreas) > 0 {
		focus = strings.Join(req.FocusAreas, ", ")
	}

	return fmt.Sprintf(`You are interviewing a candidate for the following role.

Job Description:
%s

Candidate Resume:
%s

Write exactly %d interview questions at %s difficulty.
- Mix behavioural and technical questions relevant to the job description
- Probe these areas where the resume looks thin: %s
- %s

Return only a JSON array of strings, no additional commentary.`,
		req.JobDescription,
		resume,
		req.Count,
		req.Difficulty,
		focus,
		difficultyGuidance(req.Difficulty),
	)
}

func difficultyGuidance(difficulty string) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "Keep questions introductory and focused on fundamentals"
	case models.DifficultyDifficult:
		return "Ask in-depth questions on system design, trade-offs and edge cases"
	default:
		return "Balance fundamentals with practical scenario questions"
	}
}

// ParseQuestions reads a JSON array of strings, falling back to one
// question per non-empty line with list markers stripped
func ParseQuestions(text string) []string {
	clean := cleanJSON(text)
	var list []string
	if err := json.Unmarshal([]byte(clean), &list); err == nil {
		out := list[:0]
		for _, q := range list {
			if q = strings.TrimSpace(q); q != "" {
				out = append(out, q)
			}
		}
		return out
	}

	questions := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}

// cleanJSON strips a surrounding markdown code fence
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// generateWithOpenAI calls the chat completions API
func (c *Client) generateWithOpenAI(ctx context.Context, prompt string) (string, error) {
	if c.settings.OpenAIKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured. Run: mockprep config set --key openai_key --value YOUR_KEY")
	}
	model := c.settings.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  1500,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.settings.OpenAIKey}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, "OpenAI", c.settings.OpenAIURL+"/v1/chat/completions", headers, reqBody, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format from OpenAI")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// generateWithAnthropic calls the messages API
func (c *Client) generateWithAnthropic(ctx context.Context, prompt string) (string, error) {
	if c.settings.AnthropicKey == "" {
		return "", fmt.Errorf("Anthropic API key not configured. Run: mockprep config set --key anthropic_key --value YOUR_KEY")
	}
	model := c.settings.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	reqBody := map[string]interface{}{
		"model":      model,
		"max_tokens": 1500,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{
		"x-api-key":         c.settings.AnthropicKey,
		"anthropic-version": "2023-06-01",
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := c.postJSON(ctx, "Anthropic", c.settings.AnthropicURL+"/v1/messages", headers, reqBody, &result); err != nil {
		return "", err
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}
	return strings.TrimSpace(result.Content[0].Text), nil
}

// generateWithOllama calls a local Ollama server
func (c *Client) generateWithOllama(ctx context.Context, prompt string) (string, error) {
	model := c.settings.Model
	if model == "" {
		model = "llama3.2"
	}

	reqBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}

	var result struct {
		Response *string `json:"response"`
	}
	if err := c.postJSON(ctx, "Ollama", strings.TrimRight(c.settings.OllamaURL, "/")+"/api/generate", nil, reqBody, &result); err != nil {
		return "", err
	}
	if result.Response == nil {
		return "", fmt.Errorf("unexpected response format from Ollama")
	}
	return strings.TrimSpace(*result.Response), nil
}

// generateWithGemini uses the Gemini API through the genai SDK
func (c *Client) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	if c.settings.GeminiKey == "" {
		return "", fmt.Errorf("Gemini API key not configured. Run: mockprep config set --key gemini_key --value YOUR_KEY")
	}
	model := c.settings.Model
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.settings.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.http,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// postJSON sends body as JSON and decodes a 200 response into out
func (c *Client) postJSON(ctx context.Context, provider, url string, headers map[string]string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error: %s", provider, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unexpected response format from %s: %w", provider, err)
	}
	return nil
}

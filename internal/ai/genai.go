package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GenAIClient calls Gemini through the official google.golang.org/genai SDK.
type GenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewGenAIClient создает клиент Gemini на базе SDK genai.
// Пустой baseURL означает адрес SDK по умолчанию.
func NewGenAIClient(opts ClientOptions) *GenAIClient {
	return &GenAIClient{
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimSpace(opts.BaseURL),
		model:       opts.Model,
		maxTokens:   resolveMaxTokens(opts.MaxTokens),
		temperature: resolveTemperature(opts.Temperature),
		httpClient: &http.Client{
			Timeout: resolveTimeout(opts.Timeout),
		},
	}
}

// Chat отправляет сообщения через Models.GenerateContent.
func (c *GenAIClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, errors.New("genai api key is missing")
	}

	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", nil, fmt.Errorf("create genai client: %w", err)
	}

	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))
	for _, message := range messages {
		text := strings.TrimSpace(message.Content)
		if text == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(message.Role)) {
		case "system":
			system = &genai.Content{Parts: []*genai.Part{{Text: text}}}
		case "assistant", "model":
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: text}}})
		}
	}

	if len(contents) == 0 {
		return "", nil, errors.New("genai request has no user content")
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(c.temperature)),
		MaxOutputTokens:   int32(c.maxTokens),
	})
	if err != nil {
		return "", nil, fmt.Errorf("genai generate content: %w", err)
	}

	raw, _ := json.Marshal(resp)
	text := resp.Text()
	if text == "" {
		return "", raw, errors.New("genai response missing content")
	}

	return text, raw, nil
}

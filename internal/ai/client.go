package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
	defaultTimeout     = 10 * time.Second
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client отправляет один запрос к провайдеру модели.
// Возвращает текст ответа и сырое тело ответа API.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

// ClientOptions общие параметры генерации для всех провайдеров.
type ClientOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}

func resolveTimeout(value time.Duration) time.Duration {
	if value > 0 {
		return value
	}

	return defaultTimeout
}

func resolveTemperature(value float64) float64 {
	if value >= 0 && value <= 2 {
		return value
	}

	return defaultTemperature
}

// NewClient выбирает реализацию клиента по имени провайдера.
// Для провайдера "none" возвращается nil: шлюз будет отдавать статический контент.
func NewClient(provider string, opts ClientOptions) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini":
		return NewGeminiClient(opts), nil
	case "genai":
		return NewGenAIClient(opts), nil
	case "groq":
		return NewGroqClient(opts), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", provider)
	}
}

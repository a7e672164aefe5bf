package emoji

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const maxTextLength = 200

var (
	ErrEmptyText       = errors.New("text is required")
	ErrTextTooLong     = fmt.Errorf("text must be %d characters or fewer", maxTextLength)
	ErrMissingAPIKey   = errors.New("API key is required")
	ErrEmptySuggestion = errors.New("model returned no suggestion")
)

// Client is the slice of the OpenAI API the service needs. The real
// implementation is *openai.Client; tests substitute a fake.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service asks a chat model for a single emoji describing a piece of text.
// A fresh client is built per request because the API key arrives with the
// request rather than living in server config.
type Service struct {
	logger    *slog.Logger
	newClient func(apiKey string) Client
}

func NewService(logger *slog.Logger) *Service {
	return NewServiceWithClient(logger, func(apiKey string) Client {
		return openai.NewClient(apiKey)
	})
}

// NewServiceWithClient lets callers substitute the OpenAI client, mainly
// for tests.
func NewServiceWithClient(logger *slog.Logger, newClient func(apiKey string) Client) *Service {
	return &Service{
		logger:    logger.With("component", "emoji"),
		newClient: newClient,
	}
}

// Suggest returns one emoji for the given text. The text is capped at 200
// characters to keep prompts cheap and abuse-resistant.
func (s *Service) Suggest(ctx context.Context, text, apiKey string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if len([]rune(text)) > maxTextLength {
		return "", ErrTextTooLong
	}
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Suggest a single emoji that best represents this text: %q", text),
			},
		},
		MaxTokens:   10,
		Temperature: 0.7,
	}

	resp, err := s.newClient(apiKey).CreateChatCompletion(ctx, req)
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		return "", fmt.Errorf("failed to get emoji suggestion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptySuggestion
	}

	suggestion := strings.TrimSpace(resp.Choices[0].Message.Content)
	if suggestion == "" {
		return "", ErrEmptySuggestion
	}

	s.logger.Info("emoji suggested", "text_length", len(text))
	return suggestion, nil
}

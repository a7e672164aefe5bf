package emoji

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func newTestService(fake *fakeClient) *Service {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.newClient = func(string) Client { return fake }
	return svc
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestSuggestReturnsEmoji(t *testing.T) {
	fake := &fakeClient{resp: completionWith(" 🎉 ")}
	svc := newTestService(fake)

	got, err := svc.Suggest(context.Background(), "We shipped the release!", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "🎉", got)

	assert.Equal(t, openai.GPT3Dot5Turbo, fake.lastReq.Model)
	assert.Equal(t, 10, fake.lastReq.MaxTokens)
	require.Len(t, fake.lastReq.Messages, 1)
	assert.Contains(t, fake.lastReq.Messages[0].Content, `"We shipped the release!"`)
}

func TestSuggestValidation(t *testing.T) {
	svc := newTestService(&fakeClient{resp: completionWith("🙂")})
	ctx := context.Background()

	_, err := svc.Suggest(ctx, "", "sk-test")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Suggest(ctx, "   ", "sk-test")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Suggest(ctx, strings.Repeat("a", 201), "sk-test")
	assert.ErrorIs(t, err, ErrTextTooLong)

	_, err = svc.Suggest(ctx, "hello", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSuggestAllowsExactly200Chars(t *testing.T) {
	svc := newTestService(&fakeClient{resp: completionWith("🙂")})

	got, err := svc.Suggest(context.Background(), strings.Repeat("a", 200), "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "🙂", got)
}

func TestSuggestUpstreamError(t *testing.T) {
	upstream := errors.New("rate limited")
	svc := newTestService(&fakeClient{err: upstream})

	_, err := svc.Suggest(context.Background(), "hello", "sk-test")
	assert.ErrorIs(t, err, upstream)
}

func TestSuggestEmptyCompletion(t *testing.T) {
	svc := newTestService(&fakeClient{resp: openai.ChatCompletionResponse{}})

	_, err := svc.Suggest(context.Background(), "hello", "sk-test")
	assert.ErrorIs(t, err, ErrEmptySuggestion)

	svc = newTestService(&fakeClient{resp: completionWith("   ")})
	_, err = svc.Suggest(context.Background(), "hello", "sk-test")
	assert.ErrorIs(t, err, ErrEmptySuggestion)
}

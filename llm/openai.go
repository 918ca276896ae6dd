package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Client = (*OpenAIClient)(nil)

func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is missing")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return o.generateOnce(ctx, prompt)
	})
}

func (o *OpenAIClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		MaxTokens:   defaultMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}

	slog.Debug("openai generation complete", "model", o.model)
	return resp.Choices[0].Message.Content, nil
}

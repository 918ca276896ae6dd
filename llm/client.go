// Package llm provides provider-switchable text generation clients.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is the interface every LLM backend implements.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	maxAttempts      = 3
	defaultMaxTokens = 1000
)

// initialBackoff is a variable so tests can shrink the retry delay.
var initialBackoff = 2 * time.Second

// FromEnv selects a provider from LLM_PROVIDER: "claude" (default),
// "gemini" or "openai". Construction fails when the matching API key is
// not configured.
func FromEnv() (Client, error) {
	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	switch provider {
	case "gemini":
		return NewGeminiClient()
	case "openai":
		return NewOpenAIClient()
	case "", "claude":
		return NewAnthropicClient()
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

// withRetry runs generate with exponential backoff, returning the first
// successful reply.
func withRetry(ctx context.Context, generate func() (string, error)) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff

	var reply string
	err := backoff.Retry(func() error {
		var err error
		reply, err = generate()
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))
	if err != nil {
		return "", err
	}
	return reply, nil
}

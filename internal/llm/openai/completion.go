package openai

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/bfortuner/prompt-playground/internal/llm"
)

func (c *Client) Complete(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	params := openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(request.Model),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(request.Prompt),
		},
		MaxTokens:   openai.Int(int64(request.MaxTokens)),
		Temperature: openai.Float(request.Temperature),
	}

	if len(request.Stop) > 0 {
		params.Stop = openai.CompletionNewParamsStopUnion{
			OfStringArray: request.Stop,
		}
	}

	// best_of must cover n; the API rejects best_of < n
	if request.BestOf > 1 {
		params.BestOf = openai.Int(int64(request.BestOf))
		params.N = openai.Int(int64(request.BestOf))
	}

	if request.Suffix != "" {
		params.Suffix = openai.String(request.Suffix)
	}

	output, err := c.Client.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke completion model: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	allContents := make([]string, 0, len(output.Choices))
	for _, choice := range output.Choices {
		allContents = append(allContents, choice.Text)
	}

	first := output.Choices[0]
	return &llm.CompletionResponse{
		Content:     first.Text,
		AllContents: allContents,
		StopReason:  string(first.FinishReason),
		TotalTokens: int(output.Usage.TotalTokens),
	}, nil
}

func (c *Client) CompleteWithRetry(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		response, err := c.Complete(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		// Check if error is retryable
		if !isRetryableError(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		delay := calculateBackoff(attempt, c.InitialDelay, c.MaxDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			continue
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", c.MaxRetries, lastErr)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// 1. Rate limit errors
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Rate limit") {
		return true
	}

	// 2. Service errors (5xx)
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") {
		return true
	}

	// 3. Network errors
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "timeout") {
		return true
	}

	// Non-retryable errors (4xx client errors, validation errors, etc.)
	return false
}

func calculateBackoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	backoff := float64(initialDelay) * math.Pow(2, float64(attempt))

	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	jitter := backoff * 0.2 * (2*rand.Float64() - 1) // Random value between -20% and +20%
	backoff += jitter

	return time.Duration(backoff)
}

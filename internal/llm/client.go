package llm

import (
	"context"
)

// Completer is an interface for invoking text-completion models
// This allows mocking in tests without making real API calls
type Completer interface {
	Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
	CompleteWithRetry(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/bfortuner/prompt-playground/internal/llm"
	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/runner/mocks"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testParams() models.ModelParams {
	return models.ModelParams{
		Model:       "gpt-3.5-turbo-instruct",
		MaxTokens:   64,
		Temperature: 0,
	}
}

func TestRunInputs_AnswersInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)

	answers := map[string]string{
		"Q: What is 2+2?\nA:": "4",
		"Q: Name a color\nA:": "Blue",
	}
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			answer, ok := answers[req.Prompt]
			if !ok {
				return nil, fmt.Errorf("unexpected prompt: %q", req.Prompt)
			}
			return &llm.CompletionResponse{Content: answer}, nil
		}).
		Times(2)

	r := NewRunner(mockClient, newTestLogger())

	inputs := []string{"What is 2+2?", "Name a color"}
	results, summary := r.RunInputs(context.Background(), "Q: {{input}}\nA:", testParams(), inputs)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Results line up with inputs in submission order
	want := []string{"4", "Blue"}
	for i, result := range results {
		if result.Input != inputs[i] {
			t.Errorf("result %d input = %q, want %q", i, result.Input, inputs[i])
		}
		if result.Output != want[i] {
			t.Errorf("result %d output = %q, want %q", i, result.Output, want[i])
		}
		if result.Failed() {
			t.Errorf("result %d unexpectedly failed: %s", i, result.Error)
		}
	}

	if summary.Total != 2 || summary.Success != 2 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunInputs_FailureDoesNotAbortBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			if strings.Contains(req.Prompt, "a") {
				return nil, errors.New("request timed out")
			}
			return &llm.CompletionResponse{Content: "ok"}, nil
		}).
		Times(2)

	r := NewRunner(mockClient, newTestLogger())

	results, summary := r.RunInputs(context.Background(), "{{input}}", testParams(), []string{"a", "b"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// First item failed but is still present, in position
	if !results[0].Failed() {
		t.Error("expected first result to fail")
	}
	if !strings.Contains(results[0].Error, "timed out") {
		t.Errorf("unexpected error: %s", results[0].Error)
	}
	if results[0].Output != "" {
		t.Errorf("failed result should have no output, got %q", results[0].Output)
	}

	// Second item still processed
	if results[1].Failed() {
		t.Errorf("expected second result to succeed, got error: %s", results[1].Error)
	}
	if results[1].Output != "ok" {
		t.Errorf("second output = %q, want %q", results[1].Output, "ok")
	}

	if summary.Success != 1 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunInputs_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "echo: " + req.Prompt}, nil
		}).
		AnyTimes()

	r := NewRunner(mockClient, newTestLogger())
	inputs := []string{"x", "y", "z"}

	first, _ := r.RunInputs(context.Background(), "{{input}}", testParams(), inputs)
	second, _ := r.RunInputs(context.Background(), "{{input}}", testParams(), inputs)

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Output != second[i].Output {
			t.Errorf("result %d differs between runs: %q vs %q", i, first[i].Output, second[i].Output)
		}
	}
}

func TestRunInputs_EmptyInputMakesNoCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT() calls registered: any model invocation fails the test
	mockClient := mocks.NewMockCompleter(ctrl)

	r := NewRunner(mockClient, newTestLogger())

	results, summary := r.RunInputs(context.Background(), "{{input}}", testParams(), nil)

	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if summary.Total != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestRun_CancelledContextStopsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	// First item cancels the batch; no further calls expected
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
			cancel()
			return &llm.CompletionResponse{Content: "first"}, nil
		}).
		Times(1)

	r := NewRunner(mockClient, newTestLogger())

	results, summary := r.RunInputs(ctx, "{{input}}", testParams(), []string{"a", "b", "c"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result before cancellation, got %d", len(results))
	}
	if summary.Total != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestComplete_RetryParamUsesRetryPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)
	mockClient.EXPECT().
		CompleteWithRetry(gomock.Any(), gomock.Any()).
		Return(&llm.CompletionResponse{Content: "retried"}, nil)

	r := NewRunner(mockClient, newTestLogger())

	params := testParams()
	params.Retry = true

	result := r.Complete(context.Background(), models.PromptRequest{
		Template: "{{input}}",
		Params:   params,
		Input:    "hello",
	})

	if result.Failed() {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.Output != "retried" {
		t.Errorf("output = %q", result.Output)
	}
}

func TestComplete_InsertModeSplitsPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			if req.Prompt != "The capital of France is " {
				t.Errorf("prompt = %q", req.Prompt)
			}
			if req.Suffix != ", a beautiful city." {
				t.Errorf("suffix = %q", req.Suffix)
			}
			return &llm.CompletionResponse{Content: "Paris"}, nil
		})

	r := NewRunner(mockClient, newTestLogger())

	result := r.Complete(context.Background(), models.PromptRequest{
		Template: "The capital of France is [insert], a beautiful city.",
		Params:   testParams(),
	})

	if result.Failed() {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.Output != "Paris" {
		t.Errorf("output = %q", result.Output)
	}
}

func TestComplete_MultipleInsertTokensFailTheItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Render error: model must not be called
	mockClient := mocks.NewMockCompleter(ctrl)

	r := NewRunner(mockClient, newTestLogger())

	result := r.Complete(context.Background(), models.PromptRequest{
		Template: "[insert] and [insert]",
		Params:   testParams(),
	})

	if !result.Failed() {
		t.Fatal("expected failure for template with two insert tokens")
	}
	if !strings.Contains(result.Error, "exactly 1") {
		t.Errorf("unexpected error: %s", result.Error)
	}
}

func TestComplete_TemplateInjection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockCompleter(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			if req.Prompt != "Translate cat to French:" {
				t.Errorf("prompt = %q", req.Prompt)
			}
			return &llm.CompletionResponse{Content: "chat"}, nil
		})

	r := NewRunner(mockClient, newTestLogger())

	result := r.Complete(context.Background(), models.PromptRequest{
		Template: "Translate {{Word}} to {{language}}:",
		Params:   testParams(),
		Inputs: map[string]string{
			"word":     "cat",
			"language": "French",
		},
	})

	if result.Output != "chat" {
		t.Errorf("output = %q", result.Output)
	}
}

func TestSummarize(t *testing.T) {
	results := []models.CompletionResult{
		{Output: "a"},
		{Error: "boom"},
		{Output: "c"},
	}

	summary := Summarize(results)

	if summary.Total != 3 || summary.Success != 2 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

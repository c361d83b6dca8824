package runner

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/llm"
	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/prompt"
)

// Runner turns prompt requests into model completions. A batch run is a
// sequential pass over the requests: results keep the input order and a
// failed item never aborts the rest of the batch.
type Runner struct {
	client llm.Completer
	logger *zerolog.Logger
}

func NewRunner(client llm.Completer, logger *zerolog.Logger) *Runner {
	return &Runner{
		client: client,
		logger: logger,
	}
}

// Complete executes a single prompt request. Failures are reported in the
// result's Error field rather than as a Go error, so callers can treat
// every item uniformly.
func (r *Runner) Complete(ctx context.Context, request models.PromptRequest) models.CompletionResult {
	start := time.Now()

	result := models.CompletionResult{
		Input: request.Input,
	}

	inputs := make(map[string]string, len(request.Inputs)+1)
	for k, v := range request.Inputs {
		inputs[k] = v
	}
	if request.Input != "" {
		inputs["input"] = request.Input
	}

	rendered := prompt.Render(request.Template, inputs)

	completionReq := llm.CompletionRequest{
		Prompt:      rendered,
		Model:       request.Params.Model,
		MaxTokens:   request.Params.MaxTokens,
		Temperature: request.Params.Temperature,
		Stop:        prompt.NormalizeStop(request.Params.Stop),
		BestOf:      request.Params.BestOf,
	}

	// Insert mode: the token splits the rendered text into prompt and suffix
	if strings.Contains(strings.ToLower(rendered), prompt.InsertToken) {
		before, after, err := prompt.SplitInsert(rendered)
		if err != nil {
			result.Error = err.Error()
			result.Duration = time.Since(start)
			return result
		}
		completionReq.Prompt = before
		completionReq.Suffix = after
	}

	var response *llm.CompletionResponse
	var err error
	if request.Params.Retry {
		response, err = r.client.CompleteWithRetry(ctx, completionReq)
	} else {
		response, err = r.client.Complete(ctx, completionReq)
	}

	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Output = response.Content
	return result
}

// Run processes the requests in order. Each item gets its own result;
// a failed item is recorded and the batch moves on. Cancelling ctx stops
// the batch between items, leaving the remaining requests unprocessed.
func (r *Runner) Run(ctx context.Context, requests []models.PromptRequest) ([]models.CompletionResult, models.BatchSummary) {
	start := time.Now()
	results := make([]models.CompletionResult, 0, len(requests))

	for i, request := range requests {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().
				Int("processed", i).
				Int("total", len(requests)).
				Msg("batch cancelled")
			break
		}

		result := r.Complete(ctx, request)
		results = append(results, result)

		if result.Failed() {
			r.logger.Error().
				Int("item", i).
				Str("error", result.Error).
				Msg("item failed")
		} else {
			r.logger.Debug().
				Int("item", i).
				Dur("duration", result.Duration).
				Msg("item complete")
		}
	}

	summary := Summarize(results)
	summary.Duration = time.Since(start)

	r.logger.Info().
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("batch complete")

	return results, summary
}

// RunInputs runs the same template once per input value.
func (r *Runner) RunInputs(ctx context.Context, template string, params models.ModelParams, inputs []string) ([]models.CompletionResult, models.BatchSummary) {
	requests := make([]models.PromptRequest, 0, len(inputs))
	for _, input := range inputs {
		requests = append(requests, models.PromptRequest{
			Template: template,
			Params:   params,
			Input:    input,
		})
	}
	return r.Run(ctx, requests)
}

// Summarize counts successes and failures across a result set.
func Summarize(results []models.CompletionResult) models.BatchSummary {
	summary := models.BatchSummary{Total: len(results)}
	for _, result := range results {
		if result.Failed() {
			summary.Failed++
		} else {
			summary.Success++
		}
	}
	return summary
}

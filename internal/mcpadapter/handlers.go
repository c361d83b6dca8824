package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/runner"
)

// CompleteInput is the MCP tool input schema (matches HTTP API field names).
type CompleteInput struct {
	Template    string            `json:"template" jsonschema:"prompt template with {{key}} placeholders"`
	Inputs      map[string]string `json:"inputs,omitempty" jsonschema:"values injected into the template placeholders"`
	Input       string            `json:"input,omitempty" jsonschema:"shorthand for the {{input}} placeholder"`
	Model       string            `json:"model,omitempty" jsonschema:"completion model name"`
	MaxTokens   int               `json:"max_tokens,omitempty" jsonschema:"completion token budget"`
	Temperature *float64          `json:"temperature,omitempty" jsonschema:"sampling temperature (0.0-2.0)"`
	Stop        []string          `json:"stop,omitempty" jsonschema:"stop sequences; newline and double-newline are aliases"`
}

// RunBatchInput is the MCP tool input schema for batch runs.
type RunBatchInput struct {
	Template    string   `json:"template" jsonschema:"prompt template with {{input}} placeholder"`
	Inputs      []string `json:"inputs" jsonschema:"one completion is run per input, in order"`
	Model       string   `json:"model,omitempty" jsonschema:"completion model name"`
	MaxTokens   int      `json:"max_tokens,omitempty" jsonschema:"completion token budget"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature (0.0-2.0)"`
}

// BatchOutput pairs the per-item results with the run summary.
type BatchOutput struct {
	Results []models.CompletionResult `json:"results"`
	Summary models.BatchSummary       `json:"summary"`
}

// NewCompleteHandler returns a tool handler that runs a single prompt.
// Pass the returned function to mcp.AddTool.
func NewCompleteHandler(promptRunner *runner.Runner, defaults models.ModelParams) func(context.Context, *mcp.CallToolRequest, CompleteInput) (*mcp.CallToolResult, models.CompletionResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompleteInput) (*mcp.CallToolResult, models.CompletionResult, error) {
		return Complete(ctx, promptRunner, defaults, req, input)
	}
}

// Complete runs a single completion and returns the result.
func Complete(
	ctx context.Context,
	promptRunner *runner.Runner,
	defaults models.ModelParams,
	req *mcp.CallToolRequest,
	input CompleteInput,
) (*mcp.CallToolResult, models.CompletionResult, error) {
	params := mergeParams(defaults, input.Model, input.MaxTokens, input.Temperature)
	params.Stop = input.Stop

	result := promptRunner.Complete(ctx, models.PromptRequest{
		Template: input.Template,
		Params:   params,
		Inputs:   input.Inputs,
		Input:    input.Input,
	})
	return nil, result, nil
}

// NewRunBatchHandler returns a tool handler that runs a template over a
// list of inputs. Pass the returned function to mcp.AddTool.
func NewRunBatchHandler(promptRunner *runner.Runner, defaults models.ModelParams) func(context.Context, *mcp.CallToolRequest, RunBatchInput) (*mcp.CallToolResult, BatchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RunBatchInput) (*mcp.CallToolResult, BatchOutput, error) {
		return RunBatch(ctx, promptRunner, defaults, req, input)
	}
}

// RunBatch runs the template once per input and returns ordered results.
func RunBatch(
	ctx context.Context,
	promptRunner *runner.Runner,
	defaults models.ModelParams,
	req *mcp.CallToolRequest,
	input RunBatchInput,
) (*mcp.CallToolResult, BatchOutput, error) {
	params := mergeParams(defaults, input.Model, input.MaxTokens, input.Temperature)

	results, summary := promptRunner.RunInputs(ctx, input.Template, params, input.Inputs)
	return nil, BatchOutput{Results: results, Summary: summary}, nil
}

// mergeParams overlays explicit tool inputs onto the configured
// defaults. Temperature is a pointer so a caller asking for 0.0 is
// distinguishable from one leaving it unset.
func mergeParams(defaults models.ModelParams, model string, maxTokens int, temperature *float64) models.ModelParams {
	params := defaults
	if model != "" {
		params.Model = model
	}
	if maxTokens > 0 {
		params.MaxTokens = maxTokens
	}
	if temperature != nil {
		params.Temperature = *temperature
	}
	return params
}

package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bfortuner/prompt-playground/internal/models"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer emits batch results in one of two formats: jsonl writes one
// JSON object per result, summary suppresses per-item output and prints
// only the final counts.
type Writer struct {
	output io.Writer
	format string
}

func NewWriter(output io.Writer, format string) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}

	return &Writer{
		output: output,
		format: format,
	}, nil
}

func (w *Writer) Write(result models.CompletionResult) error {
	if w.format != FormatJSONL {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if _, err := fmt.Fprintf(w.output, "%s\n", data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func (w *Writer) WriteSummary(summary models.BatchSummary) error {
	var err error
	switch w.format {
	case FormatJSONL:
		var data []byte
		data, err = json.Marshal(summary)
		if err == nil {
			_, err = fmt.Fprintf(w.output, "%s\n", data)
		}
	case FormatSummary:
		_, err = fmt.Fprintf(w.output, "total=%d success=%d failed=%d duration=%s\n",
			summary.Total, summary.Success, summary.Failed, summary.Duration)
	}

	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

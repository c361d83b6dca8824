package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/models"
)

// InputRecord is one line of a JSONL batch file. A malformed line is
// reported through Error with its line number so the batch can skip it
// and keep going.
type InputRecord struct {
	LineNumber int
	Request    models.PromptRequest
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		input:  input,
		logger: logger,
	}
}

// ReadAll streams records from the input, one per non-blank line. The
// channel is closed when the input is exhausted or ctx is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	ch := make(chan InputRecord)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}

			var request models.PromptRequest
			if err := json.Unmarshal([]byte(line), &request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
				r.logger.Warn().Int("line", lineNumber).Err(err).Msg("skipping malformed record")
			} else {
				record.Request = request
			}

			select {
			case ch <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reader cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case ch <- InputRecord{LineNumber: lineNumber, Error: fmt.Errorf("read input: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

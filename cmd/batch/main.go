package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bfortuner/prompt-playground/internal/batch"
	"github.com/bfortuner/prompt-playground/internal/models"
	"github.com/bfortuner/prompt-playground/internal/setup"
	"github.com/bfortuner/prompt-playground/internal/setup/logger"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(os.Getenv("LOG_LEVEL"))

	input := flag.String("input", "", "Input JSONL file, or '-' for stdin")
	output := flag.String("output", "", "Output file, defaults to stdout")
	format := flag.String("format", "jsonl", "Output format. Supported formats: 'jsonl', 'summary'")
	presetName := flag.String("preset", "", "Preset name used for records without a template")
	templateFile := flag.String("template-file", "", "Template file used for records without a template")
	model := flag.String("model", "", "Override the completion model for all records")
	maxTokens := flag.Int("max-tokens", 0, "Override max_tokens for all records")
	temperature := flag.Float64("temperature", -1, "Override temperature for all records")
	continueOnError := flag.Bool("continue-on-error", true, "Keep going when an item fails")
	dryRun := flag.Bool("dry-run", false, "Validate input without calling the model")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	defaults, err := resolveDefaults(deps, *presetName, *templateFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve template defaults")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	// Read records
	reader := batch.NewReader(inputFile, deps.Logger)
	recordsCh := reader.ReadAll(ctx)

	var records []batch.InputRecord
	for record := range recordsCh {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records, defaults)
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	// Build the request list, applying CLI defaults and overrides
	var requests []models.PromptRequest
	skipped := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().Int("line", record.LineNumber).Err(record.Error).Msg("Skipping malformed record")
			skipped++

			if !*continueOnError {
				log.Fatal().Msg("Stopping due to malformed record")
			}
			continue
		}

		requests = append(requests, applyRecordDefaults(record.Request, defaults, *model, *maxTokens, *temperature))
	}

	results, summary := deps.Runner.Run(ctx, requests)

	writeErrors := 0
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Str("input", result.Input).Msg("Failed to write result")
			writeErrors++

			if !*continueOnError {
				log.Fatal().Msg("Stopping due to write error")
			}
			continue
		}

		if result.Failed() && !*continueOnError {
			log.Fatal().Str("error", result.Error).Msg("Stopping due to item failure")
		}
	}

	if err := writer.WriteSummary(summary); err != nil {
		log.Error().Err(err).Msg("Failed to write summary")
	}

	log.Info().
		Int("success", summary.Success).
		Int("failed", summary.Failed).
		Int("skipped", skipped).
		Int("write_errors", writeErrors).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func resolveDefaults(deps *setup.Dependencies, presetName, templateFile string) (models.PromptRequest, error) {
	defaults := models.PromptRequest{
		Params: deps.Presets.Presets.DefaultModel.Params(),
	}

	if presetName != "" {
		preset, err := deps.Presets.Find(presetName)
		if err != nil {
			return models.PromptRequest{}, err
		}
		defaults.Template = preset.Template
		defaults.Params = preset.Model.Params()
	}

	if templateFile != "" {
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return models.PromptRequest{}, err
		}
		defaults.Template = string(data)
	}

	return defaults, nil
}

// applyRecordDefaults fills a record's missing template and params from
// the CLI defaults, then applies explicit flag overrides. Params default
// independently of the template: a record may carry its own template and
// still rely on the default model params.
func applyRecordDefaults(request, defaults models.PromptRequest, model string, maxTokens int, temperature float64) models.PromptRequest {
	if request.Template == "" {
		request.Template = defaults.Template
	}
	if request.Params.Model == "" {
		request.Params = defaults.Params
	}
	if model != "" {
		request.Params.Model = model
	}
	if maxTokens > 0 {
		request.Params.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		request.Params.Temperature = temperature
	}
	return request
}

func dryRunAndExit(records []batch.InputRecord, defaults models.PromptRequest) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
			continue
		}
		if record.Request.Template == "" && defaults.Template == "" {
			log.Error().
				Int("line", record.LineNumber).
				Msg("Record has no template and no -preset or -template-file given")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

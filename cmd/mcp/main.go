package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bfortuner/prompt-playground/internal/mcpadapter"
	"github.com/bfortuner/prompt-playground/internal/setup"
	"github.com/bfortuner/prompt-playground/internal/setup/logger"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(os.Getenv("LOG_LEVEL"))

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg := setup.LoadConfig()

	// Wire dependencies
	deps, err := setup.Wire(cfg, &log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			log.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		log.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "prompt-playground",
			Version: "1.0.0",
		}, nil,
	)

	defaults := deps.Presets.Presets.DefaultModel.Params()

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_prompt",
		Description: "Render a prompt template with inputs and run a single text completion",
	}, mcpadapter.NewCompleteHandler(deps.Runner, defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_batch",
		Description: "Run a prompt template over a list of inputs in order, isolating per-item failures",
	}, mcpadapter.NewRunBatchHandler(deps.Runner, defaults))
	return server
}

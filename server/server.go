package server

import (
	"context"

	"github.com/cnosuke/fetch-analytics/config"
	"github.com/cnosuke/fetch-analytics/fetcher"
	"github.com/cnosuke/fetch-analytics/metrics"
	"github.com/cnosuke/fetch-analytics/pipeline"
	"github.com/cnosuke/fetch-analytics/server/tools"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"go.uber.org/zap"
)

// Run - Execute the MCP server until ctx is done
func Run(ctx context.Context, cfg *config.Config, name string, version string, revision string) error {
	zap.S().Infow("starting MCP server")

	// Format version string with revision if available
	versionString := version
	if revision != "" && revision != "xxx" {
		versionString = versionString + " (" + revision + ")"
	}

	zap.S().Debugw("creating HTTP Fetcher")
	httpFetcher, err := fetcher.NewHTTPFetcher(&fetcher.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
	})
	if err != nil {
		zap.S().Errorw("failed to create HTTP Fetcher", "error", err)
		return err
	}

	pipelines, err := pipeline.NewAll(cfg, httpFetcher)
	if err != nil {
		zap.S().Errorw("failed to create pipelines", "error", err)
		return err
	}
	recorder := metrics.New(metrics.Namespace)
	runner := pipeline.NewRunner(pipelines, pipeline.WithRecorder(recorder))

	zap.S().Debugw("creating MCP server",
		"name", name,
		"version", versionString,
	)
	mcpServer := mcp.NewServer(stdio.NewStdioServerTransport(),
		mcp.WithName(name),
		mcp.WithVersion(versionString),
	)

	zap.S().Debugw("registering tools")
	if err := tools.RegisterAllTools(mcpServer, runner, cfg); err != nil {
		zap.S().Errorw("failed to register tools", "error", err)
		return err
	}

	zap.S().Infow("serving MCP over stdio")
	if err := mcpServer.Serve(); err != nil {
		zap.S().Errorw("failed to start server", "error", err)
		return errors.Wrap(err, "failed to start server")
	}

	<-ctx.Done()

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			zap.S().Warnw("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	zap.S().Infow("server shutting down")
	return nil
}

package tools

import (
	"context"

	"github.com/cnosuke/fetch-analytics/config"
	"github.com/cnosuke/fetch-analytics/pipeline"
	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cnosuke/fetch-analytics/types"
	mcp "github.com/metoro-io/mcp-golang"
)

// Runner executes pipelines and standalone processing.
type Runner interface {
	Run(ctx context.Context, jobs []pipeline.Job) []*pipeline.Outcome
	Process(format types.Format, path string) (*report.Report, error)
}

// RegisterAllTools - Register all tools with the server
func RegisterAllTools(mcpServer *mcp.Server, runner Runner, cfg *config.Config) error {
	if err := RegisterRunPipelineTool(mcpServer, runner, cfg); err != nil {
		return err
	}

	if err := RegisterSummarizeFileTool(mcpServer, runner); err != nil {
		return err
	}

	return nil
}

func textResponse(text string) *mcp.ToolResponse {
	return mcp.NewToolResponse(mcp.NewTextContent(text))
}

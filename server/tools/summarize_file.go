package tools

import (
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
	"go.uber.org/zap"
)

// SummarizeFileArgs - Arguments for summarize_file tool
type SummarizeFileArgs struct {
	Format string `json:"format" jsonschema:"description=File format: text csv spreadsheet or json,required=true"`
	Path   string `json:"path" jsonschema:"description=Path of an existing local file,required=true"`
}

// RegisterSummarizeFileTool - Register the summarize_file tool
func RegisterSummarizeFileTool(mcpServer *mcp.Server, runner Runner) error {
	zap.S().Debugw("registering summarize_file tool")
	err := mcpServer.RegisterTool("summarize_file",
		"Summarizes an existing local file without fetching anything",
		summarizeFileHandler(runner))
	if err != nil {
		zap.S().Errorw("failed to register summarize_file tool", "error", err)
		return errors.Wrap(err, "failed to register summarize_file tool")
	}
	return nil
}

func summarizeFileHandler(runner Runner) func(args SummarizeFileArgs) (*mcp.ToolResponse, error) {
	return func(args SummarizeFileArgs) (*mcp.ToolResponse, error) {
		zap.S().Infow("executing summarize_file", "format", args.Format, "path", args.Path)

		if args.Path == "" {
			return nil, errors.New("path is required")
		}
		format, err := types.ParseFormat(args.Format)
		if err != nil {
			return nil, err
		}

		rep, err := runner.Process(format, args.Path)
		if err != nil {
			zap.S().Errorw("failed to summarize file", "path", args.Path, "error", err)
			return nil, errors.Wrap(err, "failed to summarize file")
		}
		return textResponse(rep.Render()), nil
	}
}

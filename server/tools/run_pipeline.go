package tools

import (
	"context"
	"encoding/json"

	"github.com/cnosuke/fetch-analytics/config"
	"github.com/cnosuke/fetch-analytics/pipeline"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
	"go.uber.org/zap"
)

// RunPipelineArgs - Arguments for run_pipeline tool
type RunPipelineArgs struct {
	Format string `json:"format" jsonschema:"description=Pipeline format: text csv spreadsheet or json,required=true"`
	URL    string `json:"url,omitempty" jsonschema:"description=URL to fetch. Defaults to the configured URL"`
	Folder string `json:"folder,omitempty" jsonschema:"description=Existing folder to write into. Defaults to the configured data folder"`
	File   string `json:"file,omitempty" jsonschema:"description=Data file name. Defaults to the configured file name"`
	Report string `json:"report,omitempty" jsonschema:"description=Report file name. Defaults to <file>_summary.txt"`
}

// PipelineResult is the JSON payload returned by run_pipeline.
type PipelineResult struct {
	Format     string `json:"format"`
	URL        string `json:"url"`
	DataPath   string `json:"data_path"`
	ReportPath string `json:"report_path"`
	Bytes      int    `json:"bytes"`
	DurationMs int64  `json:"duration_ms"`
	Report     string `json:"report"`
}

// RegisterRunPipelineTool - Register the run_pipeline tool
func RegisterRunPipelineTool(mcpServer *mcp.Server, runner Runner, cfg *config.Config) error {
	zap.S().Debugw("registering run_pipeline tool")
	err := mcpServer.RegisterTool("run_pipeline",
		"Fetches a URL, stores the payload in a folder and writes a summary report next to it",
		runPipelineHandler(runner, cfg))
	if err != nil {
		zap.S().Errorw("failed to register run_pipeline tool", "error", err)
		return errors.Wrap(err, "failed to register run_pipeline tool")
	}
	return nil
}

func runPipelineHandler(runner Runner, cfg *config.Config) func(args RunPipelineArgs) (*mcp.ToolResponse, error) {
	return func(args RunPipelineArgs) (*mcp.ToolResponse, error) {
		zap.S().Infow("executing run_pipeline",
			"format", args.Format,
			"url", args.URL,
			"folder", args.Folder,
			"file", args.File)

		format, err := types.ParseFormat(args.Format)
		if err != nil {
			return nil, err
		}

		job := pipeline.JobFor(cfg, format)
		if args.URL != "" {
			job.URL = args.URL
		}
		if args.Folder != "" {
			job.Folder = args.Folder
		}
		if args.File != "" {
			job.File = args.File
			job.Report = ""
		}
		if args.Report != "" {
			job.Report = args.Report
		}
		if job.URL == "" {
			return nil, errors.New("URL is required")
		}

		outcomes := runner.Run(context.Background(), []pipeline.Job{job})
		if len(outcomes) == 0 {
			return nil, errors.New("pipeline produced no outcome")
		}
		out := outcomes[0]
		if out.Err != nil {
			zap.S().Errorw("pipeline failed",
				"format", format.String(),
				"url", job.URL,
				"error", out.Err)
			return nil, errors.Wrap(out.Err, "pipeline failed")
		}

		result := PipelineResult{
			Format:     out.Format.String(),
			URL:        out.URL,
			DataPath:   out.DataPath,
			ReportPath: out.ReportPath,
			Bytes:      out.Bytes,
			DurationMs: out.Duration.Milliseconds(),
		}
		if out.Report != nil {
			result.Report = out.Report.Render()
		}

		jsonResponse, err := json.Marshal(result)
		if err != nil {
			zap.S().Errorw("failed to marshal response to JSON", "error", err)
			return nil, errors.Wrap(err, "failed to marshal response to JSON")
		}
		return textResponse(string(jsonResponse)), nil
	}
}

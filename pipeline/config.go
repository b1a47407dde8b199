package pipeline

import (
	"github.com/cnosuke/fetch-analytics/config"
	"github.com/cnosuke/fetch-analytics/fetcher"
	"github.com/cnosuke/fetch-analytics/types"
	"go.uber.org/zap"
)

// pipelineConfig returns the configuration section for format.
func pipelineConfig(cfg *config.Config, format types.Format) config.PipelineConfig {
	switch format {
	case types.FormatText:
		return cfg.Pipelines.Text
	case types.FormatCSV:
		return cfg.Pipelines.CSV
	case types.FormatSpreadsheet:
		return cfg.Pipelines.Spreadsheet
	case types.FormatJSON:
		return cfg.Pipelines.JSON
	}
	return config.PipelineConfig{}
}

// NewAll builds one pipeline per format from cfg.
func NewAll(cfg *config.Config, f fetcher.Fetcher) ([]Pipeline, error) {
	pipelines := make([]Pipeline, 0, len(types.Formats))
	for _, format := range types.Formats {
		pc := pipelineConfig(cfg, format)
		p, err := New(format, f, WithReadable(pc.Readable))
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, nil
}

// JobsFromConfig returns a job for every selected format that is not skipped
// and has a URL. An empty selection means all formats.
func JobsFromConfig(cfg *config.Config, selected ...types.Format) []Job {
	if len(selected) == 0 {
		selected = types.Formats
	}

	var jobs []Job
	for _, format := range selected {
		pc := pipelineConfig(cfg, format)
		if pc.Skip {
			zap.S().Infow("pipeline skipped by configuration", "format", format.String())
			continue
		}
		if pc.URL == "" {
			zap.S().Warnw("pipeline has no URL configured, skipping", "format", format.String())
			continue
		}

		jobs = append(jobs, JobFor(cfg, format))
	}
	return jobs
}

// JobFor returns the configured job for format, ignoring skip.
func JobFor(cfg *config.Config, format types.Format) Job {
	pc := pipelineConfig(cfg, format)
	job := Job{
		Format: format,
		URL:    pc.URL,
		Folder: cfg.Data.Folder,
		File:   pc.File,
		Report: pc.Report,
	}
	// Content-type strictness applies to JSON only.
	if format == types.FormatJSON {
		job.ExpectedContentType = pc.ContentType
	}
	return job
}

// Package pipeline composes a fetcher, a writer and a processor into one
// fetch → persist → summarize run per format.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cnosuke/fetch-analytics/fetcher"
	"github.com/cnosuke/fetch-analytics/processor"
	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cnosuke/fetch-analytics/writer"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Codec is the capability set a format provides to the generic pipeline.
type Codec[P any] interface {
	Decode(data []byte) (P, error)
	Encode(payload P) ([]byte, error)
	Summarize(payload P) (*report.Report, error)
}

// Job describes one pipeline invocation.
type Job struct {
	Format types.Format
	URL    string
	Folder string
	File   string
	// Report is the summary file name; empty derives it from File.
	Report string
	// ExpectedContentType guards the fetch when non-empty.
	ExpectedContentType string
}

// ReportName returns the summary file name for the job.
func (j Job) ReportName() string {
	if j.Report != "" {
		return j.Report
	}
	return ReportName(j.File)
}

// ReportName derives "<base>_summary.txt" from a data file name.
func ReportName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + "_summary.txt"
}

// Outcome is the result of one pipeline invocation. Err is nil on success.
type Outcome struct {
	Format     types.Format
	URL        string
	DataPath   string
	ReportPath string
	Report     *report.Report
	Bytes      int
	Duration   time.Duration
	Err        error
}

// Pipeline runs the stages for one format.
type Pipeline interface {
	Format() types.Format
	// Run fetches job.URL, persists the payload and writes its summary.
	// Failures are reported in the Outcome, never returned or panicked.
	Run(ctx context.Context, job Job) *Outcome
	// Process summarizes an existing file of this format.
	Process(path string) (*report.Report, error)
}

// PrepareFunc turns a fetched response into the bytes handed to Decode.
type PrepareFunc func(resp *types.FetchResponse) []byte

type pipeline[P any] struct {
	format  types.Format
	codec   Codec[P]
	fetcher fetcher.Fetcher
	prepare PrepareFunc
}

// Option customizes a pipeline built by New.
type Option func(*options)

type options struct {
	readable bool
}

// WithReadable converts HTML bodies to readable Markdown in the text pipeline.
func WithReadable(readable bool) Option {
	return func(o *options) {
		o.readable = readable
	}
}

// New builds the pipeline for format.
func New(format types.Format, f fetcher.Fetcher, opts ...Option) (Pipeline, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch format {
	case types.FormatText:
		return &pipeline[string]{format: format, codec: processor.TextCodec{}, fetcher: f, prepare: prepareText(o.readable)}, nil
	case types.FormatCSV:
		return &pipeline[[][]string]{format: format, codec: processor.CSVCodec{}, fetcher: f}, nil
	case types.FormatSpreadsheet:
		return &pipeline[[]byte]{format: format, codec: processor.SpreadsheetCodec{}, fetcher: f}, nil
	case types.FormatJSON:
		return &pipeline[gjson.Result]{format: format, codec: processor.JSONCodec{}, fetcher: f}, nil
	}
	return nil, errors.Newf("unsupported format %d", format)
}

func prepareText(readable bool) PrepareFunc {
	return func(resp *types.FetchResponse) []byte {
		text := fetcher.NormalizeText(resp)
		if readable && fetcher.IsHTML(resp.ContentType) {
			text = fetcher.ExtractReadable(text, resp.URL)
		}
		return []byte(text)
	}
}

func (p *pipeline[P]) Format() types.Format {
	return p.format
}

func (p *pipeline[P]) Run(ctx context.Context, job Job) *Outcome {
	start := time.Now()
	out := &Outcome{Format: p.format, URL: job.URL}
	log := zap.S().With("format", p.format.String(), "url", job.URL)

	fail := func(err error) *Outcome {
		out.Err = err
		out.Duration = time.Since(start)
		log.Errorw("pipeline failed", "kind", types.KindOf(err).String(), "error", err)
		return out
	}

	resp, err := p.fetcher.Fetch(ctx, job.URL, job.ExpectedContentType)
	if err != nil {
		return fail(err)
	}

	raw := resp.Body
	if p.prepare != nil {
		raw = p.prepare(resp)
	}
	payload, err := p.codec.Decode(raw)
	if err != nil {
		return fail(types.NewError(types.KindMalformedInput, "decode", job.URL, err))
	}
	data, err := p.codec.Encode(payload)
	if err != nil {
		return fail(types.NewError(types.KindMalformedInput, "encode", job.URL, err))
	}

	dataPath, err := writer.WriteBytes(job.Folder, job.File, data)
	out.DataPath = dataPath
	if err != nil {
		return fail(err)
	}
	out.Bytes = len(data)

	rep, err := p.Process(dataPath)
	if err != nil {
		return fail(err)
	}
	out.Report = rep

	reportPath, err := writer.WriteText(job.Folder, job.ReportName(), rep.Render())
	out.ReportPath = reportPath
	if err != nil {
		return fail(err)
	}

	out.Duration = time.Since(start)
	log.Infow("pipeline completed",
		"data_path", dataPath,
		"report_path", reportPath,
		"bytes", out.Bytes,
		"duration_ms", out.Duration.Milliseconds())
	return out
}

func (p *pipeline[P]) Process(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewError(types.KindMalformedInput, "process", path, errors.Wrap(err, "failed to read file"))
	}
	payload, err := p.codec.Decode(data)
	if err != nil {
		return nil, types.NewError(types.KindMalformedInput, "process", path, err)
	}
	rep, err := p.codec.Summarize(payload)
	if err != nil {
		return nil, types.NewError(types.KindMalformedInput, "process", path, err)
	}
	zap.S().Debugw("file summarized", "format", p.format.String(), "path", path, "entries", len(rep.Entries))
	return rep, nil
}

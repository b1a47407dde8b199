package pipeline

import (
	"context"
	"path"
	"path/filepath"
	"slices"

	"github.com/cnosuke/fetch-analytics/archive"
	"github.com/cnosuke/fetch-analytics/metrics"
	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes jobs one after another. A failing job never stops the
// jobs that follow it.
type Runner struct {
	pipelines map[types.Format]Pipeline
	recorder  *metrics.Recorder
	archiver  archive.Archiver
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithRecorder records every outcome in rec.
func WithRecorder(rec *metrics.Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithArchiver uploads data and report files of successful runs.
func WithArchiver(a archive.Archiver) RunnerOption {
	return func(r *Runner) {
		r.archiver = a
	}
}

// NewRunner creates a runner over the given pipelines.
func NewRunner(pipelines []Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{pipelines: make(map[types.Format]Pipeline, len(pipelines))}
	for _, p := range pipelines {
		r.pipelines[p.Format()] = p
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes jobs in format order (text, csv, spreadsheet, json) and
// returns one outcome per job in that order.
func (r *Runner) Run(ctx context.Context, jobs []Job) []*Outcome {
	runID := uuid.New().String()
	ordered := slices.Clone(jobs)
	slices.SortStableFunc(ordered, func(a, b Job) int {
		return int(a.Format) - int(b.Format)
	})

	zap.S().Infow("starting pipeline run", "run_id", runID, "jobs", len(ordered))

	outcomes := make([]*Outcome, 0, len(ordered))
	failed := 0
	for _, job := range ordered {
		out := r.runOne(ctx, runID, job)
		if out.Err != nil {
			failed++
		}
		outcomes = append(outcomes, out)
	}

	zap.S().Infow("pipeline run finished",
		"run_id", runID,
		"succeeded", len(outcomes)-failed,
		"failed", failed)
	return outcomes
}

func (r *Runner) runOne(ctx context.Context, runID string, job Job) *Outcome {
	log := zap.S().With("run_id", runID, "format", job.Format.String())

	p, ok := r.pipelines[job.Format]
	if !ok {
		err := types.NewError(types.KindUnknown, "run", job.Format.String(), nil)
		log.Errorw("no pipeline registered for format")
		return &Outcome{Format: job.Format, URL: job.URL, Err: err}
	}

	log.Infow("running pipeline", "url", job.URL, "folder", job.Folder, "file", job.File)
	out := p.Run(ctx, job)

	if r.recorder != nil {
		if out.Err != nil {
			r.recorder.ObserveFailure(job.Format.String(), types.KindOf(out.Err).String(), out.Duration)
		} else {
			r.recorder.ObserveSuccess(job.Format.String(), out.Duration, out.Bytes)
		}
	}

	if r.archiver != nil && out.Err == nil {
		for _, file := range []string{out.DataPath, out.ReportPath} {
			key := path.Join(runID, job.Format.String(), filepath.Base(file))
			if err := r.archiver.Archive(ctx, key, file); err != nil {
				log.Warnw("failed to archive file", "path", file, "error", err)
			}
		}
	}
	return out
}

// Process summarizes an existing file with the pipeline registered for format.
func (r *Runner) Process(format types.Format, path string) (*report.Report, error) {
	p, ok := r.pipelines[format]
	if !ok {
		return nil, types.NewError(types.KindUnknown, "process", format.String(), nil)
	}
	return p.Process(path)
}

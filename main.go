package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cnosuke/fetch-analytics/archive"
	"github.com/cnosuke/fetch-analytics/byline"
	"github.com/cnosuke/fetch-analytics/config"
	"github.com/cnosuke/fetch-analytics/fetcher"
	"github.com/cnosuke/fetch-analytics/logger"
	"github.com/cnosuke/fetch-analytics/metrics"
	"github.com/cnosuke/fetch-analytics/pipeline"
	"github.com/cnosuke/fetch-analytics/server"
	"github.com/cnosuke/fetch-analytics/setup"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	Name     = "fetch-analytics"
	Version  = "0.1.0"
	Revision = "xxx"
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	var cfg *config.Config

	return &cli.App{
		Name:    Name,
		Usage:   "Fetch text, CSV, spreadsheet and JSON data and write summary reports",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file (see config.example.yml)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "write logs to this file instead of stderr",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			cfg, err = config.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if c.Bool("debug") {
				cfg.Log.Debug = true
			}
			if c.IsSet("log") {
				cfg.Log.Path = c.String("log")
			}
			return logger.InitLogger(cfg.Log.Debug, cfg.Log.Path)
		},
		After: func(c *cli.Context) error {
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "fetch, store and summarize every configured pipeline in order",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "format",
						Usage: "run only these formats (text, csv, spreadsheet, json)",
					},
				},
				Action: func(c *cli.Context) error {
					formats, err := parseFormats(c.StringSlice("format"))
					if err != nil {
						return err
					}
					return runPipelines(c.Context, c.App.Writer, cfg, formats)
				},
			},
			{
				Name:      "process",
				Usage:     "summarize an existing file without fetching",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "format",
						Usage:    "file format (text, csv, spreadsheet, json)",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("exactly one FILE argument is required")
					}
					format, err := types.ParseFormat(c.String("format"))
					if err != nil {
						return err
					}
					return processFile(c.App.Writer, cfg, format, c.Args().First())
				},
			},
			{
				Name:  "setup",
				Usage: "create the year, region and prefixed data folders",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "base",
						Usage: "base folder (defaults to the data folder)",
					},
					&cli.DurationFlag{
						Name:  "periodic",
						Usage: "also create numbered folders for this long, 0 disables",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Value: 5 * time.Second,
						Usage: "interval between numbered folders",
					},
				},
				Action: func(c *cli.Context) error {
					base := c.String("base")
					if base == "" {
						base = cfg.Data.Folder
					}
					return setupFolders(c.Context, c.App.Writer, cfg, base, c.Duration("periodic"), c.Duration("interval"))
				},
			},
			{
				Name:  "byline",
				Usage: "print the business profile byline",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, byline.New(cfg.Profile).Render())
					return err
				},
			},
			{
				Name:  "serve",
				Usage: "serve the pipelines as MCP tools over stdio",
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return server.Run(ctx, cfg, Name, Version, Revision)
				},
			},
		},
	}
}

func parseFormats(names []string) ([]types.Format, error) {
	formats := make([]types.Format, 0, len(names))
	for _, name := range names {
		f, err := types.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func newRunner(ctx context.Context, cfg *config.Config, opts ...pipeline.RunnerOption) (*pipeline.Runner, error) {
	httpFetcher, err := fetcher.NewHTTPFetcher(&fetcher.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	pipelines, err := pipeline.NewAll(cfg, httpFetcher)
	if err != nil {
		return nil, err
	}

	if cfg.Archive.Bucket != "" {
		archiver, err := archive.NewS3Archiver(ctx, &archive.Config{
			Bucket:   cfg.Archive.Bucket,
			Prefix:   cfg.Archive.Prefix,
			Region:   cfg.Archive.Region,
			Endpoint: cfg.Archive.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithArchiver(archiver))
	}
	return pipeline.NewRunner(pipelines, opts...), nil
}

func runPipelines(ctx context.Context, w io.Writer, cfg *config.Config, formats []types.Format) error {
	jobs := pipeline.JobsFromConfig(cfg, formats...)
	if len(jobs) == 0 {
		return errors.New("no pipelines to run")
	}

	recorder := metrics.New(metrics.Namespace)
	runner, err := newRunner(ctx, cfg, pipeline.WithRecorder(recorder))
	if err != nil {
		return err
	}

	outcomes := runner.Run(ctx, jobs)
	failed := printOutcomes(w, outcomes)

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			zap.S().Warnw("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if failed == len(outcomes) {
		return cli.Exit("all pipelines failed", 1)
	}
	return nil
}

// printOutcomes writes one block per outcome and returns the number of failures.
func printOutcomes(w io.Writer, outcomes []*pipeline.Outcome) int {
	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			fmt.Fprintf(w, "[%s] failed: %v\n", out.Format, out.Err)
			continue
		}
		fmt.Fprintf(w, "[%s] %s -> %s (%d bytes, %s)\n",
			out.Format, out.DataPath, out.ReportPath, out.Bytes, out.Duration.Round(time.Millisecond))
		if out.Report != nil {
			fmt.Fprintln(w, out.Report.Render())
		}
	}
	return failed
}

func processFile(w io.Writer, cfg *config.Config, format types.Format, path string) error {
	pipelines, err := pipeline.NewAll(cfg, nil)
	if err != nil {
		return err
	}
	rep, err := pipeline.NewRunner(pipelines).Process(format, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rep.Render())
	return err
}

func setupFolders(ctx context.Context, w io.Writer, cfg *config.Config, base string, periodic, interval time.Duration) error {
	if err := setup.EnsureBase(base); err != nil {
		return err
	}

	res, err := setup.ForRange(base, cfg.Setup.StartYear, cfg.Setup.EndYear)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res.Summary("year folders"))

	res = setup.FromList(base, cfg.Setup.Folders, setup.Options{Lowercase: true, Underscores: true})
	fmt.Fprintln(w, res.Summary("region folders"))
	for _, err := range res.Errors {
		fmt.Fprintf(w, "error: %v\n", err)
	}

	res, err = setup.Prefixed(base, cfg.Setup.Prefixed, cfg.Setup.Prefix)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res.Summary("prefixed folders"))

	if periodic > 0 {
		res, err = setup.Periodically(ctx, base, periodic, interval)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, res.Summary("periodic folders"))
	}
	return nil
}

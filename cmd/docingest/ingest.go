// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/poiesic/docingest"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/ingestion"
	"github.com/urfave/cli/v2"
)

func descriptorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "category",
			Usage: "Category stamped on every chunk",
		},
		&cli.StringFlag{
			Name:  "sub-category",
			Usage: "Sub-category stamped on every chunk",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-columns",
			Usage: "Parquet columns left out of the chunk text (comma separated)",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Window size used when the bulk upsert fails; overrides INGEST_BATCH_SIZE",
		},
		&cli.DurationFlag{
			Name:  "pacing",
			Usage: "Pause between parquet windows, 0 to disable; overrides INGEST_PACING_INTERVAL",
		},
	}
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:   "ingest",
		Usage:  "Ingest a single PDF or parquet file",
		Action: ingestAction,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the document",
				Required: true,
			},
		}, descriptorFlags()...),
	}
}

func ingestDirCommand() *cli.Command {
	return &cli.Command{
		Name:   "ingest-dir",
		Usage:  "Ingest every PDF and parquet file in a directory",
		Action: ingestDirAction,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "Directory to scan",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Documents ingested concurrently",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "recursive",
				Usage: "Descend into subdirectories",
			},
		}, descriptorFlags()...),
	}
}

func retryCommand() *cli.Command {
	return &cli.Command{
		Name:   "retry",
		Usage:  "Re-ingest documents whose last recorded run was partial or failed",
		Action: retryAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Documents ingested concurrently",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Window size used when the bulk upsert fails; overrides INGEST_BATCH_SIZE",
			},
			&cli.DurationFlag{
				Name:  "pacing",
				Usage: "Pause between parquet windows, 0 to disable; overrides INGEST_PACING_INTERVAL",
			},
		},
	}
}

// newIngester builds an Ingester from the loaded configuration and the
// command's ingestion flags.
func newIngester(ctx context.Context, c *cli.Context, extra ...ingestion.Option) (*docingest.Ingester, error) {
	cfg := appConfig(c)
	if c.IsSet("batch-size") {
		cfg.Ingest.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("pacing") {
		cfg.Ingest.PacingInterval = c.Duration("pacing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return docingest.New(ctx, cfg,
		docingest.WithLogger(appLogger(c)),
		docingest.WithPipelineOptions(extra...),
	)
}

func descriptor(c *cli.Context, path string) core.Descriptor {
	return core.Descriptor{
		Path:           path,
		Category:       c.String("category"),
		SubCategory:    c.String("sub-category"),
		ExcludeColumns: c.StringSlice("exclude-columns"),
	}
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func ingestAction(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	ing, err := newIngester(ctx, c)
	if err != nil {
		return err
	}
	defer ing.Close()

	res := ing.Ingest(ctx, descriptor(c, c.String("file")))
	printResult(c.App.Writer, res)
	if !res.OK() {
		return cli.Exit(fmt.Sprintf("ingestion %s", res.Status), 1)
	}
	return nil
}

func ingestDirAction(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	files, err := collectFiles(c.String("dir"), c.Bool("recursive"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(c.App.Writer, "no pdf or parquet files in %s\n", c.String("dir"))
		return nil
	}

	ing, err := newIngester(ctx, c, ingestion.WithWorkers(c.Int("workers")))
	if err != nil {
		return err
	}
	defer ing.Close()

	descs := make([]core.Descriptor, len(files))
	for i, path := range files {
		descs[i] = descriptor(c, path)
	}
	return ingestAll(ctx, c, ing, descs)
}

func retryAction(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	if appConfig(c).LedgerPath == "" {
		return cli.Exit("a ledger path is required (--ledger or LEDGER_PATH)", 1)
	}
	ing, err := newIngester(ctx, c, ingestion.WithWorkers(c.Int("workers")))
	if err != nil {
		return err
	}
	defer ing.Close()

	descs, err := ing.Unfinished(ctx)
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		fmt.Fprintln(c.App.Writer, "no partial or failed runs to retry")
		return nil
	}
	return ingestAll(ctx, c, ing, descs)
}

// ingestAll submits every descriptor, reports progress and prints the
// documents that were not fully ingested.
func ingestAll(ctx context.Context, c *cli.Context, ing *docingest.Ingester, descs []core.Descriptor) error {
	tracker := ingestion.NewProgressTracker(c.App.ErrWriter, len(descs))
	tracker.Start()

	results := make(chan *ingestion.Result, len(descs))
	for _, desc := range descs {
		if err := ing.Submit(ctx, desc, func(res *ingestion.Result) {
			tracker.Record(res)
			results <- res
		}); err != nil {
			return err
		}
	}
	ing.Wait()
	tracker.Finish()
	close(results)

	var failed []*ingestion.Result
	for res := range results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	fmt.Fprintf(c.App.Writer, "ingested %d of %d documents in %s\n",
		len(descs)-len(failed), len(descs), tracker.Elapsed().Round(time.Millisecond))
	for _, res := range failed {
		printResult(c.App.Writer, res)
	}
	if len(failed) > 0 {
		return cli.Exit(fmt.Sprintf("%d documents not fully ingested", len(failed)), 1)
	}
	return nil
}

// collectFiles returns the supported documents under dir in lexical order.
func collectFiles(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := core.FileTypeFromPath(path); err == nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func printResult(w io.Writer, res *ingestion.Result) {
	fmt.Fprintf(w, "%s: %s (%d chunks, %d acknowledged", res.Descriptor.Path, res.Status, res.Chunks, res.Acknowledged)
	if res.Batched {
		fmt.Fprintf(w, ", %d windows, %d failed", res.Windows, res.FailedWindows)
	}
	fmt.Fprintf(w, ") in %s\n", res.Duration())
	if len(res.Missing) > 0 {
		fmt.Fprintf(w, "  missing %d chunk ids\n", len(res.Missing))
	}
	if res.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", res.Err)
	}
}

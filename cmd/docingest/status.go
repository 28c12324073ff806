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
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage/badger"
	"github.com/urfave/cli/v2"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show recorded ingestion runs",
		Action: statusAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ledger",
				Usage: "Path to the BadgerDB run ledger (defaults to the global ledger)",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Show the run of a single document",
			},
		},
	}
}

func statusAction(c *cli.Context) error {
	path := c.String("ledger")
	if path == "" {
		path = appConfig(c).LedgerPath
	}
	if path == "" {
		return cli.Exit("a ledger path is required (--ledger or LEDGER_PATH)", 1)
	}

	ledger, err := badger.NewLedger(path, appLogger(c))
	if err != nil {
		return err
	}
	defer ledger.Close()

	if file := c.String("file"); file != "" {
		run, err := ledger.GetRun(c.Context, file)
		if err != nil {
			return err
		}
		printRun(c.App.Writer, run)
		return nil
	}

	runs, err := ledger.ListRuns(c.Context)
	if err != nil {
		return err
	}
	printRuns(c.App.Writer, runs)
	return nil
}

func printRuns(w io.Writer, runs []*core.IngestRun) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tSTATUS\tTYPE\tCHUNKS\tACKED\tPATH")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.FinishedAt.Local().Format(time.DateTime), run.Status, run.FileType,
			run.Chunks, run.Acknowledged, run.Path)
	}
	tw.Flush()
}

func printRun(w io.Writer, run *core.IngestRun) {
	fmt.Fprintf(w, "path:         %s\n", run.Path)
	fmt.Fprintf(w, "status:       %s\n", run.Status)
	fmt.Fprintf(w, "file type:    %s\n", run.FileType)
	fmt.Fprintf(w, "category:     %s / %s\n", run.Category, run.SubCategory)
	fmt.Fprintf(w, "chunks:       %d (%d acknowledged)\n", run.Chunks, run.Acknowledged)
	if run.Batched {
		fmt.Fprintf(w, "windows:      %d (%d failed)\n", run.Windows, run.FailedWindows)
	}
	fmt.Fprintf(w, "started:      %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "duration:     %s\n", run.Duration())
	for _, id := range run.Missing {
		fmt.Fprintf(w, "missing:      %s\n", id)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "error:        %s\n", run.Error)
	}
}

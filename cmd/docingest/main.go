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
	"log"
	"log/slog"
	"os"

	"github.com/poiesic/docingest/config"
	"github.com/poiesic/docingest/logging"
	"github.com/urfave/cli/v2"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docingest",
		Usage: "Ingest PDF and parquet documents into a vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "Directory for daily app_YYYYMMDD.log files",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file to load before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "embeddings",
				Usage: "Embedding service (cohere, gemini); overrides EMBEDDINGS_SERVICE",
			},
			&cli.StringFlag{
				Name:  "vectorstore",
				Usage: "Vector store service (pgvector, milvus, weaviate); overrides VECTORSTORE_SERVICE",
			},
			&cli.StringFlag{
				Name:  "ledger",
				Usage: "Path to the BadgerDB run ledger; overrides LEDGER_PATH",
			},
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "Write Prometheus metrics to this file on exit; overrides METRICS_TEXTFILE",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			ingestCommand(),
			ingestDirCommand(),
			retryCommand(),
			statusCommand(),
		},
	}
}

// setup loads the configuration, applies flag overrides and installs the logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(config.LoadOptions{
		EnvFile:    c.String("env-file"),
		ConfigFile: c.String("config"),
	})
	if err != nil {
		return err
	}
	applyOverrides(c, cfg)

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: c.String("log-format"),
		Dir:    cfg.LogDir,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger.Logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = logger
	return nil
}

func applyOverrides(c *cli.Context, cfg *config.Config) {
	overrides := map[string]*string{
		"log-level":        &cfg.LogLevel,
		"log-dir":          &cfg.LogDir,
		"embeddings":       &cfg.EmbeddingsService,
		"vectorstore":      &cfg.VectorStoreService,
		"ledger":           &cfg.LedgerPath,
		"metrics-textfile": &cfg.MetricsTextfile,
	}
	for name, target := range overrides {
		if c.IsSet(name) {
			*target = c.String(name)
		}
	}
}

func teardown(c *cli.Context) error {
	if logger, ok := c.App.Metadata[metaLogger].(*logging.Logger); ok {
		return logger.Close()
	}
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func appLogger(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*logging.Logger); ok {
		return logger.Logger
	}
	return slog.Default()
}

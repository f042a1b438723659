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
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/remedy"
	"github.com/poiesic/remedy/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	strategyFlag := &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "Similarity strategy (BoW, GloVe, Word2Vec); defaults to ranking.strategy",
	}
	topFlag := &cli.IntFlag{
		Name:    "top",
		Aliases: []string{"k"},
		Usage:   "Number of results to show; defaults to ranking.top_k",
	}

	return &cli.App{
		Name:  "remedy",
		Usage: "Rank known resolutions against error messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"REMEDY_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides logging.level",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Store a phrase and its resolution",
				ArgsUsage: "<phrase> <resolution>",
				Action:    addCommand,
			},
			{
				Name:      "search",
				Usage:     "Rank stored resolutions against an error message",
				ArgsUsage: "<message>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					strategyFlag,
					topFlag,
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Show the score of every strategy, ordered by --strategy",
					},
				},
			},
			{
				Name:      "scan",
				Usage:     "Search for every error line in a log file",
				ArgsUsage: "<log file>",
				Action:    scanCommand,
				Flags: []cli.Flag{
					strategyFlag,
					topFlag,
					&cli.BoolFlag{
						Name:    "follow",
						Aliases: []string{"f"},
						Usage:   "Keep watching the file for new error lines",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Import phrases from a phrase,resolution CSV file",
				ArgsUsage: "<csv file>",
				Action:    importCommand,
			},
			{
				Name:      "export",
				Usage:     "Export phrases as phrase,resolution CSV (stdout when no file is given)",
				ArgsUsage: "[csv file]",
				Action:    exportCommand,
			},
			{
				Name:   "list",
				Usage:  "List stored phrases",
				Action: listCommand,
			},
			{
				Name:   "rebuild-model",
				Usage:  "Retrain the incremental model on the whole corpus",
				Action: rebuildModelCommand,
			},
		},
	}
}

// setup loads the configuration and installs the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := setupLogger(c, cfg); err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(c *cli.Context, cfg *config.Config) error {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", strings.ToLower(cfg.Logging.Level))
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// openEngine builds an engine from the loaded configuration. The returned
// context is cancelled on interrupt.
func openEngine(c *cli.Context) (context.Context, *remedy.Engine, func(), error) {
	cfg, _ := c.App.Metadata[configKey].(*config.Config)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)

	engine, err := remedy.NewEngine(ctx, cfg,
		remedy.WithLogger(slog.Default()),
		remedy.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	closer := func() {
		if err := engine.Close(); err != nil {
			slog.Error("error closing engine", "err", err)
		}
		stop()
	}
	return ctx, engine, closer, nil
}

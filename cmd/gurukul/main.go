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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/gurukul"
	"github.com/poiesic/gurukul/ai"
	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/tasks"
)

func main() {
	app := &cli.App{
		Name:  "gurukul",
		Usage: "Lesson generation and knowledge retrieval pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the data directory",
				Value:   "gurukul-data",
			},
			&cli.BoolFlag{
				Name:  "file-storage",
				Usage: "Store artifacts as plain JSON files instead of BadgerDB",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Generate a lesson for a subject and topic",
				ArgsUsage: "<subject> <topic>",
				Action:    generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "requester",
						Usage: "Identifier recorded on the task",
						Value: "cli",
					},
					&cli.BoolFlag{
						Name:  "wikipedia",
						Usage: "Consult the Wikipedia cache",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Regenerate even if a lesson already exists for the key",
					},
					&cli.StringFlag{
						Name:  "generation-host",
						Usage: "Generation service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "generation-model",
						Usage: "Generation model name",
						Value: "qwen2.5:3b",
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Generation sampling temperature",
						Value: 0.2,
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "API token for the generation service",
						Value: "none",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "How often to poll task status",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Print the status of a generation task",
				ArgsUsage: "<task-id>",
				Action:    statusCommand,
			},
			{
				Name:      "get",
				Usage:     "Print the stored lesson for a subject and topic",
				ArgsUsage: "<subject> <topic>",
				Action:    getCommand,
			},
			{
				Name:   "list",
				Usage:  "List all stored lesson keys",
				Action: listCommand,
			},
			{
				Name:      "search",
				Usage:     "Search stored lessons by substring",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openLibrary(c *cli.Context, extra ...gurukul.LibraryOption) (*gurukul.Library, error) {
	opts := extra
	if c.Bool("file-storage") {
		opts = append(opts, gurukul.WithFileStorage())
	}
	return gurukul.NewLibrary(c.String("db"), opts...)
}

func generateCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <subject> <topic> arguments")
	}
	subject, topic := c.Args().Get(0), c.Args().Get(1)

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("generation-host")),
		ai.WithModel(c.String("generation-model")),
		ai.WithTemperature(c.Float64("temperature")),
		ai.WithToken(c.String("token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid generation configuration: %w", err)
	}

	lib, err := openLibrary(c, gurukul.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	task, err := lib.Generate(context.Background(), tasks.Request{
		Subject:          subject,
		Topic:            topic,
		Requester:        c.String("requester"),
		UseKnowledgeBase: false, // no external retriever is wired on the CLI path
		IncludeWikipedia: c.Bool("wikipedia"),
		ForceRegenerate:  c.Bool("force"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Task %s accepted for %q / %q (estimated completion: %s)\n",
		task.ID, subject, topic, time.Now().Add(tasks.EstimatedDuration).Format(time.Kitchen))

	done, err := pollTask(lib, task.ID, c.Duration("poll-interval"))
	if err != nil {
		return err
	}
	if done.Status == core.TaskFailed {
		return fmt.Errorf("generation failed: %s", done.Error)
	}
	return printJSON(done.Result)
}

// pollTask waits for the task to reach a terminal state, echoing progress
// transitions to stderr.
func pollTask(lib *gurukul.Library, taskID string, interval time.Duration) (*core.Task, error) {
	var lastProgress string
	for {
		task, err := lib.Status(taskID)
		if err != nil {
			return nil, err
		}
		if task.Progress != lastProgress {
			fmt.Fprintf(os.Stderr, "  %s\n", task.Progress)
			lastProgress = task.Progress
		}
		if task.Status.Terminal() {
			return task, nil
		}
		time.Sleep(interval)
	}
}

func statusCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected <task-id> argument")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	// Tasks live in the process that accepted them; this reports NotFound for
	// ids created by earlier invocations once their process has exited.
	task, err := lib.Status(c.Args().First())
	if err != nil {
		return err
	}
	return printJSON(task)
}

func getCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <subject> <topic> arguments")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	artifact, err := lib.Artifact(context.Background(), c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("no lesson stored for this key (run generate first): %w", err)
	}
	return printJSON(artifact)
}

func listCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	keys, err := lib.Keys(context.Background())
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected <query> argument")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	matches, err := lib.Search(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	for _, artifact := range matches {
		fmt.Printf("%s\t%s\t%s\n", artifact.Key(), artifact.Metadata.Version, artifact.Title)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

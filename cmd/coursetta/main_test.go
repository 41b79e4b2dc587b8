package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findIntFlag(flags []cli.Flag, name string) *cli.IntFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestAIFlags(t *testing.T) {
	flags := aiFlags()

	t.Run("ai-host has default value", func(t *testing.T) {
		hostFlag := findStringFlag(flags, "ai-host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("ai-token reads environment", func(t *testing.T) {
		tokenFlag := findStringFlag(flags, "ai-token")
		require.NotNil(t, tokenFlag)
		assert.Contains(t, tokenFlag.EnvVars, "COURSETTA_AI_TOKEN")
		assert.Equal(t, "none", tokenFlag.Value)
	})

	t.Run("embedding-model has default value", func(t *testing.T) {
		modelFlag := findStringFlag(flags, "embedding-model")
		require.NotNil(t, modelFlag)
		assert.Equal(t, "thenlper/gte-small", modelFlag.Value)
	})

	t.Run("embedding-dims has default value of 384", func(t *testing.T) {
		dimsFlag := findIntFlag(flags, "embedding-dims")
		require.NotNil(t, dimsFlag)
		assert.Equal(t, 384, dimsFlag.Value)
	})

	t.Run("vision model defaults differ from chat model", func(t *testing.T) {
		chatFlag := findStringFlag(flags, "chat-model")
		visionFlag := findStringFlag(flags, "vision-model")
		require.NotNil(t, chatFlag)
		require.NotNil(t, visionFlag)
		assert.Equal(t, "gpt-4o-mini", chatFlag.Value)
		assert.Equal(t, "gpt-4o", visionFlag.Value)
	})
}

func TestAIConfigFromFlags(t *testing.T) {
	app := &cli.App{
		Name:  "coursetta",
		Flags: aiFlags(),
		Action: func(c *cli.Context) error {
			config, err := aiConfigFromFlags(c)
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:11434/v1", config.EmbeddingHost)
			assert.Equal(t, "thenlper/gte-small", config.EmbeddingModel)
			assert.Equal(t, 384, config.EmbeddingDims)
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"coursetta"}))
}

func TestSeedCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "coursetta",
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Action: seedCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "forum"},
					&cli.StringFlag{Name: "website"},
				),
			},
		},
	}

	t.Run("missing db flag fails", func(t *testing.T) {
		err := app.Run([]string{"coursetta", "seed", "--forum", "/tmp/forum.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing both inputs fails", func(t *testing.T) {
		err := app.Run([]string{"coursetta", "seed", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--forum or --website")
	})
}

func TestSearchCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "coursetta",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{Name: "db", Required: true},
					&cli.IntFlag{Name: "top-k", Value: 5},
				),
			},
		},
	}

	t.Run("empty question fails", func(t *testing.T) {
		err := app.Run([]string{"coursetta", "search", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question is required")
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

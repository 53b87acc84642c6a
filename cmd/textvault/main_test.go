package main

import (
	"testing"
	"time"

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

func findDurationFlag(flags []cli.Flag, name string) *cli.DurationFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.DurationFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestVaultFlags(t *testing.T) {
	flags := vaultFlags()

	t.Run("db is required", func(t *testing.T) {
		dbFlag := findStringFlag(flags, "db")
		require.NotNil(t, dbFlag)
		assert.True(t, dbFlag.Required)
		assert.Contains(t, dbFlag.Aliases, "d")
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		hostFlag := findStringFlag(flags, "embedding-host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("embedding-model is required", func(t *testing.T) {
		modelFlag := findStringFlag(flags, "embedding-model")
		require.NotNil(t, modelFlag)
		assert.Empty(t, modelFlag.Value)
		assert.True(t, modelFlag.Required)
	})

	t.Run("chunking defaults", func(t *testing.T) {
		sizeFlag := findIntFlag(flags, "chunk-size")
		require.NotNil(t, sizeFlag)
		assert.Equal(t, 1000, sizeFlag.Value)

		overlapFlag := findIntFlag(flags, "overlap")
		require.NotNil(t, overlapFlag)
		assert.Equal(t, 200, overlapFlag.Value)
	})

	t.Run("pool-size defaults to sequential", func(t *testing.T) {
		poolFlag := findIntFlag(flags, "pool-size")
		require.NotNil(t, poolFlag)
		assert.Equal(t, 1, poolFlag.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		retriesFlag := findIntFlag(flags, "max-retries")
		require.NotNil(t, retriesFlag)
		assert.Equal(t, 3, retriesFlag.Value)
	})

	t.Run("timeout defaults to disabled", func(t *testing.T) {
		timeoutFlag := findDurationFlag(flags, "timeout")
		require.NotNil(t, timeoutFlag)
		assert.Equal(t, time.Duration(0), timeoutFlag.Value)
	})
}

func TestIngestTextCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "textvault",
		Commands: []*cli.Command{
			{
				Name:   "ingest-text",
				Action: ingestTextCommand,
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:     "id",
						Required: true,
					},
				),
			},
		},
	}

	t.Run("id is required", func(t *testing.T) {
		args := []string{"textvault", "ingest-text", "--db", "/tmp/test", "--embedding-model", "test-model"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id")
	})

	t.Run("missing db flag fails", func(t *testing.T) {
		args := []string{"textvault", "ingest-text", "--id", "doc-1", "--embedding-model", "test-model"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})
}

func TestDecodeMetadataFlag(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		assert.Nil(t, decodeMetadataFlag(""))
		assert.Nil(t, decodeMetadataFlag("  \n"))
	})

	t.Run("valid JSON object", func(t *testing.T) {
		meta := decodeMetadataFlag(`{"source":"cli","lang":"en"}`)
		assert.Equal(t, map[string]string{"source": "cli", "lang": "en"}, meta)
	})

	t.Run("malformed JSON degrades to nil", func(t *testing.T) {
		assert.Nil(t, decodeMetadataFlag(`{"broken`))
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newApp().Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

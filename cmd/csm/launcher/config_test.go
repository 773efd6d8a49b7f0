package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-csm/flags"
	"github.com/rony4d/go-csm/mempool"
)

// runConfigFromArgs runs MakeAllConfigs inside a synthetic CLI context.
func runConfigFromArgs(t *testing.T, args []string) (Config, error) {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = flags.Merge(flags.CommonFlags(), flags.ArenaFlags())

	var (
		got    Config
		cfgErr error
	)
	app.Action = func(c *cli.Context) error {
		got, cfgErr = MakeAllConfigs(c)
		return nil
	}

	if err := app.Run(append([]string{"csm"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got, cfgErr
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csm.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMakeAllConfigs_Defaults(t *testing.T) {
	cfg, err := runConfigFromArgs(t, nil)
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 64<<20, cfg.Arenas.Program)
}

// TestMakeAllConfigs_Layers checks each source against the ones below it:
// defaults < config file < environment < flags.
func TestMakeAllConfigs_Layers(t *testing.T) {
	file := writeConfig(t, `
[Log]
Level = "warn"
Format = "json"

[Arenas]
Session = 2048
Frame = 1024
`)

	tests := []struct {
		name string
		env  map[string]string
		args []string
		want func(t *testing.T, cfg Config)
	}{
		{
			name: "flags only",
			args: []string{"--log.level", "debug", "--log.color", "--arena.frame", "4096", "--sentry.dsn", "https://k@example.com/1"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, "debug", cfg.Log.Level)
				require.True(t, cfg.Log.Color)
				require.Equal(t, "https://k@example.com/1", cfg.Log.SentryDSN)
				require.Equal(t, 4096, cfg.Arenas.Frame)
				require.Equal(t, defaultConfig().Arenas.Session, cfg.Arenas.Session)
			},
		},
		{
			name: "file",
			args: []string{"--config", file},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, "warn", cfg.Log.Level)
				require.Equal(t, "json", cfg.Log.Format)
				require.Equal(t, 2048, cfg.Arenas.Session)
				require.Equal(t, 1024, cfg.Arenas.Frame)
				require.Equal(t, defaultConfig().Arenas.Program, cfg.Arenas.Program)
			},
		},
		{
			name: "env over file",
			env:  map[string]string{"CSM_LOG_LEVEL": "error", "CSM_ARENA_FRAME": "512"},
			args: []string{"--config", file},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, "error", cfg.Log.Level)
				require.Equal(t, "json", cfg.Log.Format)
				require.Equal(t, 512, cfg.Arenas.Frame)
			},
		},
		{
			name: "preset under file",
			args: []string{"--arena.preset", "lite", "--config", file},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, mempool.LitePreset().Sizes.Program, cfg.Arenas.Program)
				require.Equal(t, mempool.LitePreset().Sizes.Persistent, cfg.Arenas.Persistent)
				require.Equal(t, 2048, cfg.Arenas.Session)
			},
		},
		{
			name: "flags over env",
			env:  map[string]string{"CSM_ARENA_FRAME": "512", "CSM_LOG_FORMAT": "json"},
			args: []string{"--arena.frame", "256"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, 256, cfg.Arenas.Frame)
				require.Equal(t, "json", cfg.Log.Format)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for k, v := range test.env {
				t.Setenv(k, v)
			}
			cfg, err := runConfigFromArgs(t, test.args)
			require.NoError(t, err)
			test.want(t, cfg)
		})
	}
}

func TestMakeAllConfigs_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := runConfigFromArgs(t, []string{"--config", filepath.Join(t.TempDir(), "nope.toml")})
		require.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		file := writeConfig(t, "[Arenas]\nHeap = 1\n")
		_, err := runConfigFromArgs(t, []string{"--config", file})
		require.ErrorContains(t, err, "Heap")
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("CSM_ARENA_SESSION", "lots")
		_, err := runConfigFromArgs(t, nil)
		require.ErrorContains(t, err, "parse env")
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := runConfigFromArgs(t, []string{"--arena.preset", "huge"})
		require.ErrorIs(t, err, ErrBadConfig)
	})

	t.Run("zero arena", func(t *testing.T) {
		_, err := runConfigFromArgs(t, []string{"--arena.persistent", "0"})
		require.ErrorIs(t, err, ErrBadConfig)
	})
}

func TestSplitCSV(t *testing.T) {
	require.Nil(t, splitCSV(""))
	require.Equal(t, []string{"a", "b", "c"}, splitCSV("a, b ,c"))
}

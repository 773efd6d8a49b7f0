// This file maps the config file, environment and CLI context onto Config.

package launcher

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-csm/flags"
	"github.com/rony4d/go-csm/logging"
	"github.com/rony4d/go-csm/mempool"
)

// EnvPrefix is prepended to every environment variable the launcher reads,
// e.g. CSM_LOG_LEVEL or CSM_ARENA_FRAME.
const EnvPrefix = "CSM_"

var ErrBadConfig = errors.New("invalid config")

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Log    logging.Config `envPrefix:"LOG_"`
	Arenas mempool.Config `envPrefix:"ARENA_"`
}

// TOML keys are the Go field names, as in geth config files.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Log: logging.Config{
			Level:  d.Logging.Level,
			Format: d.Logging.Format,
			Color:  d.Logging.Color,
		},
		Arenas: mempool.Config{
			Program:    d.Arenas.Program,
			Persistent: d.Arenas.Persistent,
			Session:    d.Arenas.Session,
			Frame:      d.Arenas.Frame,
		},
	}
}

// MakeAllConfigs merges defaults, the arena preset, the optional config file,
// environment variables and CLI flag overrides, in that order.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if name := ctx.GlobalString(flags.ArenaPresetFlag.Name); name != "" {
		preset, err := mempool.GetPresetByName(name)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrBadConfig, err)
		}
		mempool.ApplyPreset(&cfg.Arenas, preset)
	}

	if file := ctx.GlobalString(flags.ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := parseEnv(&cfg); err != nil {
		return cfg, err
	}

	applyCLIOverrides(ctx, &cfg)

	return cfg, cfg.validate()
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet(flags.LogLevelFlag.Name) {
		cfg.Log.Level = ctx.GlobalString(flags.LogLevelFlag.Name)
	}
	if ctx.GlobalIsSet(flags.LogFormatFlag.Name) {
		cfg.Log.Format = ctx.GlobalString(flags.LogFormatFlag.Name)
	}
	if ctx.GlobalIsSet(flags.LogColorFlag.Name) {
		cfg.Log.Color = ctx.GlobalBool(flags.LogColorFlag.Name)
	}
	if ctx.GlobalIsSet(flags.SentryDSNFlag.Name) {
		cfg.Log.SentryDSN = ctx.GlobalString(flags.SentryDSNFlag.Name)
	}

	if ctx.GlobalIsSet(flags.ProgramArenaFlag.Name) {
		cfg.Arenas.Program = ctx.GlobalInt(flags.ProgramArenaFlag.Name)
	}
	if ctx.GlobalIsSet(flags.PersistentArenaFlag.Name) {
		cfg.Arenas.Persistent = ctx.GlobalInt(flags.PersistentArenaFlag.Name)
	}
	if ctx.GlobalIsSet(flags.SessionArenaFlag.Name) {
		cfg.Arenas.Session = ctx.GlobalInt(flags.SessionArenaFlag.Name)
	}
	if ctx.GlobalIsSet(flags.FrameArenaFlag.Name) {
		cfg.Arenas.Frame = ctx.GlobalInt(flags.FrameArenaFlag.Name)
	}
}

func (c Config) validate() error {
	sizes := []struct {
		name string
		size int
	}{
		{"program", c.Arenas.Program},
		{"persistent", c.Arenas.Persistent},
		{"session", c.Arenas.Session},
		{"frame", c.Arenas.Frame},
	}
	for _, s := range sizes {
		if s.size <= 0 {
			return fmt.Errorf("%w: %s arena size %d", ErrBadConfig, s.name, s.size)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

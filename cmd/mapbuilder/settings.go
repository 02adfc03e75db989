package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mapbuilder/internal/builder"
	"mapbuilder/internal/config"
)

// Setting keys. Flags use dashes, files and the environment use underscores:
// --sprite-dir, sprite_dir, MAPBUILDER_SPRITE_DIR.
var settingFlags = map[string]string{
	"addr":           "addr",
	"container":      "container",
	"map":            "map",
	"sprite_dir":     "sprite-dir",
	"watch":          "watch",
	"image_workers":  "image-workers",
	"log_level":      "log-level",
	"log_format":     "log-format",
	"cors_origins":   "cors-origin",
	"http_log_level": "http-log-level",
}

func addSettingFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "Settings file (.yaml, .json or .toml)")
	f.String("addr", ":8080", "HTTP listen address")
	f.String("container", builder.DefaultContainerID, "Container id maps are created in")
	f.String("map", "", "Map document (.yaml, .json or .toml)")
	f.String("sprite-dir", "", "Directory of images added to every map")
	f.Bool("watch", false, "Re-apply the map document when it changes")
	f.Int("image-workers", 4, "Image decoding workers")
	f.String("log-level", "info", "Log level: debug|info|warn|error")
	f.String("log-format", "console", "Log format: console|json")
	f.StringSlice("cors-origin", nil, "Allowed CORS origins (enables CORS)")
	f.String("http-log-level", "", "Default request log level: off|error|info|debug")
}

// loadSettings resolves settings with precedence flag > env > file > flag default.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MAPBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for key, name := range settingFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return config.Config{}, err
		}
	}
	if err := v.BindPFlag("config", flags.Lookup("config")); err != nil {
		return config.Config{}, err
	}

	if path := v.GetString("config"); path != "" {
		fc, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("settings: %w", err)
		}
		setFileDefaults(v, fc)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("settings: %w", err)
	}
	cfg.CORSOrigins = splitCSV(strings.Join(cfg.CORSOrigins, ","))
	if cfg.ImageWorkers <= 0 {
		cfg.ImageWorkers = 1
	}
	return cfg, nil
}

// setFileDefaults installs non-zero file values below flags and the
// environment.
func setFileDefaults(v *viper.Viper, fc config.Config) {
	set := func(key string, val any, zero bool) {
		if !zero {
			v.SetDefault(key, val)
		}
	}
	set("addr", fc.Addr, fc.Addr == "")
	set("container", fc.Container, fc.Container == "")
	set("map", fc.MapPath, fc.MapPath == "")
	set("sprite_dir", fc.SpriteDir, fc.SpriteDir == "")
	set("watch", fc.Watch, !fc.Watch)
	set("image_workers", fc.ImageWorkers, fc.ImageWorkers == 0)
	set("log_level", fc.LogLevel, fc.LogLevel == "")
	set("log_format", fc.LogFormat, fc.LogFormat == "")
	set("cors_origins", fc.CORSOrigins, len(fc.CORSOrigins) == 0)
	set("http_log_level", fc.HTTPLogLevel, fc.HTTPLogLevel == "")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	switch format {
	case "json":
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want console or json", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func stderrLogger(cfg config.Config) (zerolog.Logger, error) {
	return newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

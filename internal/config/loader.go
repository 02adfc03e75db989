package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mapbuilder/internal/common/fsutil"
	"mapbuilder/pkg/types"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string   `json:"addr" yaml:"addr" toml:"addr" mapstructure:"addr"`
	Container    string   `json:"container" yaml:"container" toml:"container" mapstructure:"container"`
	MapPath      string   `json:"map" yaml:"map" toml:"map" mapstructure:"map"`
	SpriteDir    string   `json:"sprite_dir" yaml:"sprite_dir" toml:"sprite_dir" mapstructure:"sprite_dir"`
	Watch        bool     `json:"watch" yaml:"watch" toml:"watch" mapstructure:"watch"`
	ImageWorkers int      `json:"image_workers" yaml:"image_workers" toml:"image_workers" mapstructure:"image_workers"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	LogFormat    string   `json:"log_format" yaml:"log_format" toml:"log_format" mapstructure:"log_format"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" mapstructure:"cors_origins"`
	HTTPLogLevel string   `json:"http_log_level" yaml:"http_log_level" toml:"http_log_level" mapstructure:"http_log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDocument reads a map document. Relative image paths are resolved
// against the document's directory and must name an existing file.
func LoadDocument(path string) (types.MapDocument, error) {
	var doc types.MapDocument
	if err := decodeFile(path, &doc); err != nil {
		return doc, err
	}
	base := filepath.Dir(path)
	for i, img := range doc.Images {
		p, err := fsutil.Resolve(base, img.Path)
		if err != nil {
			return doc, fmt.Errorf("image %q: %w", img.ID, err)
		}
		if p != "" && !fsutil.PathExists(p) {
			return doc, fmt.Errorf("image %q: %s: %w", img.ID, p, os.ErrNotExist)
		}
		doc.Images[i].Path = p
	}
	return doc, nil
}

// ParseDocument decodes a map document in the given format: yaml, json or toml.
func ParseDocument(b []byte, format string) (types.MapDocument, error) {
	var doc types.MapDocument
	if err := decode(b, format, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// FormatOf maps a file extension to a format name.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("unsupported config extension: %s", ext)
	}
}

func decodeFile(path string, v any) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := decode(b, format, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func decode(b []byte, format string, v any) error {
	switch format {
	case "yaml":
		return yaml.Unmarshal(b, v)
	case "json":
		return json.Unmarshal(b, v)
	case "toml":
		return toml.Unmarshal(b, v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

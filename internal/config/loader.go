package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for promptctl.
// Zero values mean "unspecified"; see Defaults and Merge.
type Config struct {
	Model          string   `json:"model" yaml:"model" toml:"model"`
	MaxTokens      int      `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	Backend        string   `json:"backend" yaml:"backend" toml:"backend"`
	APIBaseURL     string   `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	ModelsDir      string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	Threads        int      `json:"threads" yaml:"threads" toml:"threads"`
	CtxSize        int      `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	ServerURL      string   `json:"server_url" yaml:"server_url" toml:"server_url"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	MetricsFile    string   `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
	Addr           string   `json:"addr" yaml:"addr" toml:"addr"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

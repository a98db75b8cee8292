package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DocsConfig locates the documentation corpus and its derived artifacts.
type DocsConfig struct {
	Dir        string `yaml:"dir"`
	Corpus     string `yaml:"corpus"`
	Manifest   string `yaml:"manifest"`
	Titles     string `yaml:"titles"`
	Properties string `yaml:"properties"`
}

// SearchConfig holds query-time defaults.
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// LoggingConfig configures the rotating debug log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Docs    DocsConfig    `yaml:"docs"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./docdex.yaml first, then ~/.config/docdex/config.yaml.
// If neither exists it returns defaults without writing anything.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docdex.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return defaultConfig(), "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docdex", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{Docs: DocsConfig{Dir: "docs"}}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = "docs"
	}
	if cfg.Docs.Corpus == "" {
		cfg.Docs.Corpus = filepath.Join(cfg.Docs.Dir, "data_structures.jsonl")
	}
	if cfg.Docs.Manifest == "" {
		cfg.Docs.Manifest = filepath.Join(cfg.Docs.Dir, "index.json")
	}
	if cfg.Docs.Titles == "" {
		cfg.Docs.Titles = filepath.Join(cfg.Docs.Dir, "titles.json")
	}
	if cfg.Docs.Properties == "" {
		cfg.Docs.Properties = filepath.Join(cfg.Docs.Dir, "data_structures", "properties.json")
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

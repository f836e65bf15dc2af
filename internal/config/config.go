package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

// Environment variables that override the settings file.
const (
	EnvPRUPrice = "COPILOT_USAGE_PRU_PRICE"
	EnvRange    = "COPILOT_USAGE_RANGE"
	EnvModels   = "COPILOT_USAGE_MODELS"
	EnvDB       = "COPILOT_USAGE_DB"
)

const defaultPRUPrice = 0.04

type Config struct {
	PRUPrice               float64 `json:"pru_price"`
	DefaultRange           string  `json:"default_range"`
	RemoveUnknownLanguages bool    `json:"remove_unknown_languages"`
	// ModelsPath points at a YAML or JSON classification table. Empty uses
	// the built-in table.
	ModelsPath string `json:"models_path,omitempty"`
	DBPath     string `json:"db_path"`
}

func DefaultConfig() Config {
	return Config{
		PRUPrice:     defaultPRUPrice,
		DefaultRange: string(core.DateFilterAll),
		DBPath:       filepath.Join(ConfigDir(), "usage.db"),
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "copilot-usage")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "copilot-usage")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// Load reads the settings file, then applies .env and environment overrides.
func Load() (Config, error) {
	loadDotEnv()
	cfg, err := LoadFrom(ConfigPath())
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.PRUPrice <= 0 {
		cfg.PRUPrice = defaultPRUPrice
	}
	cfg.DefaultRange = string(core.ParseDateFilter(cfg.DefaultRange))
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultConfig().DBPath
	}

	return cfg, nil
}

// ApplyEnv overlays environment values read through lookup onto cfg.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvPRUPrice); ok && strings.TrimSpace(v) != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || price <= 0 {
			return cfg, fmt.Errorf("%s: invalid price %q", EnvPRUPrice, v)
		}
		cfg.PRUPrice = price
	}
	if v, ok := lookup(EnvRange); ok && strings.TrimSpace(v) != "" {
		cfg.DefaultRange = string(core.ParseDateFilter(v))
	}
	if v, ok := lookup(EnvModels); ok {
		cfg.ModelsPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDB); ok && strings.TrimSpace(v) != "" {
		cfg.DBPath = strings.TrimSpace(v)
	}
	return cfg, nil
}

// loadDotEnv loads the first .env found in the working directory or the
// config directory. Variables already set in the environment win.
func loadDotEnv() {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(ConfigDir(), ".env"))
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ModelTable loads the configured classification table, or the built-in
// one when no path is set.
func (c Config) ModelTable() (*core.ModelTable, error) {
	if c.ModelsPath == "" {
		return core.DefaultModelTable(), nil
	}
	return core.LoadModelTable(c.ModelsPath)
}

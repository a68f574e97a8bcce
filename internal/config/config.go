package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the project root.
const FileName = "cardguard.yaml"

// Environment overrides, applied after the YAML file.
const (
	EnvLogLevel = "CARDGUARD_LOG_LEVEL"
	EnvWorkers  = "CARDGUARD_WORKERS"
	EnvModel    = "CARDGUARD_MODEL"
)

// Config represents the top-level cardguard.yaml configuration.
type Config struct {
	Dirs     DirsConfig     `yaml:"dirs"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Model    ModelConfig    `yaml:"model"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DirsConfig locates the staging directories, relative to the project root.
type DirsConfig struct {
	Intake    string `yaml:"intake"`
	Processed string `yaml:"processed"`
	Final     string `yaml:"final"`
	Logs      string `yaml:"logs"`
}

// PipelineConfig controls training-data preparation.
type PipelineConfig struct {
	Workers       int  `yaml:"workers"`
	MoveValidated bool `yaml:"move_validated"`
	SplitRows     int  `yaml:"split_rows"`
}

// ModelConfig points at the exported classifier.
type ModelConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a cardguard.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard data layout.
func Default() *Config {
	return &Config{
		Dirs: DirsConfig{
			Intake:    "data/raw",
			Processed: "data/processed",
			Final:     "data/final",
			Logs:      "logs",
		},
		Pipeline: PipelineConfig{
			Workers:       4,
			MoveValidated: true,
			SplitRows:     2000,
		},
		Model: ModelConfig{
			Path: "models/model.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv loads envFile when it exists and overrides cfg from the
// CARDGUARD_* environment variables. Variables already set in the process
// take precedence over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Pipeline.Workers = n
	}
	return nil
}

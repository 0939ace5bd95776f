package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Run history backends
const (
	RunsBackendJSON     = "json"
	RunsBackendSQLite   = "sqlite"
	RunsBackendPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Logging struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"logging"`

	Paths struct {
		InputsDir  string `yaml:"inputs_dir"`  // uploaded datasets, served under /svm/inputs
		OutputsDir string `yaml:"outputs_dir"` // metrics and run history, served under /svm/outputs
		DatasetDir string `yaml:"dataset_dir"` // prepare artifacts, served under /dataset
	} `yaml:"paths"`

	Runs struct {
		Backend  string `yaml:"backend"` // "json", "sqlite" or "postgres"
		JSONPath string `yaml:"json_path"`
	} `yaml:"runs"`

	Database struct {
		Path string `yaml:"path"` // SQLite path
		URL  string `yaml:"url"`  // PostgreSQL URL
	} `yaml:"database"`

	Prepare PrepareConfig `yaml:"prepare"`
}

// PrepareConfig controls the normalization run
type PrepareConfig struct {
	Input         string `yaml:"input"`
	OutputDir     string `yaml:"output_dir"`
	EndUserLimit  int    `yaml:"enduser_limit"` // 0 keeps every row
	AdminLimit    int    `yaml:"admin_limit"`   // 0 flags every row
	MinTextLength int    `yaml:"min_text_length"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig presets the numeric prepare settings before decoding, because
// zero is meaningful for them: no limit, or no minimum text length.
func newConfig() *Config {
	return &Config{
		Prepare: PrepareConfig{
			EndUserLimit:  5000,
			AdminLimit:    10000,
			MinTextLength: 5,
		},
	}
}

// LoadConfig loads configuration from YAML file. A .env file in the working
// directory is loaded into the environment first when present.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := newConfig()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	config.Database.URL = os.ExpandEnv(config.Database.URL)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Paths.InputsDir == "" {
		c.Paths.InputsDir = "svm/inputs"
	}
	if c.Paths.OutputsDir == "" {
		c.Paths.OutputsDir = "svm/outputs"
	}
	if c.Paths.DatasetDir == "" {
		c.Paths.DatasetDir = "public/dataset"
	}

	if c.Runs.Backend == "" {
		c.Runs.Backend = RunsBackendJSON
	}
	if c.Runs.JSONPath == "" {
		c.Runs.JSONPath = c.Paths.OutputsDir + "/runs.json"
	}

	if c.Database.Path == "" {
		c.Database.Path = "./data/runs.db"
	}

	if c.Prepare.OutputDir == "" {
		c.Prepare.OutputDir = "public"
	}
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	switch c.Runs.Backend {
	case RunsBackendJSON, RunsBackendSQLite:
	case RunsBackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for runs backend %q", c.Runs.Backend)
		}
	default:
		return fmt.Errorf("unknown runs backend %q", c.Runs.Backend)
	}

	if c.Prepare.EndUserLimit < 0 || c.Prepare.AdminLimit < 0 || c.Prepare.MinTextLength < 0 {
		return errors.New("prepare limits must not be negative")
	}

	return nil
}

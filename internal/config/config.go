package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when TRIAGE_CONFIG is unset. A missing file is not an
// error; defaults and environment variables still apply.
const DefaultPath = "triage.yaml"

// Config holds all triage configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Engine  EngineConfig  `yaml:"engine"`
	Dataset DatasetConfig `yaml:"dataset"`
	Log     LogConfig     `yaml:"log"`
	Client  ClientConfig  `yaml:"client"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowOrigin     string        `yaml:"allow_origin"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig holds model loading and inference settings.
type EngineConfig struct {
	ModelDir    string `yaml:"model_dir"`
	OrtLib      string `yaml:"ort_lib"` // empty: libonnxruntime.so inside ModelDir
	Accelerated bool   `yaml:"accelerated"`
	DeviceID    int    `yaml:"device_id"`
	MaxLength   int    `yaml:"max_length"`
	Threads     int    `yaml:"threads"`
	Serialize   bool   `yaml:"serialize"`
}

// DatasetConfig holds training data preparation settings.
type DatasetConfig struct {
	Dir          string `yaml:"dir"`    // holds train.csv and test.csv
	Output       string `yaml:"output"` // SQLite file
	TokenizerDir string `yaml:"tokenizer_dir"`
	Strict       bool   `yaml:"strict"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	JSON  bool   `yaml:"json"`
}

// ClientConfig holds settings for triagectl.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			AllowOrigin:     "*",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Engine: EngineConfig{
			ModelDir:    "models",
			Accelerated: true,
			MaxLength:   512,
		},
		Dataset: DatasetConfig{
			Dir:          "dataset",
			Output:       "dataset/prepared.db",
			TokenizerDir: "models",
		},
		Log: LogConfig{
			Level: "info",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML file named by TRIAGE_CONFIG (default triage.yaml) over
// the defaults, then applies TRIAGE_* environment variables on top.
func Load() (Config, error) {
	return LoadFile(getenv("TRIAGE_CONFIG", DefaultPath))
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getenv("TRIAGE_ADDR", c.Server.Addr)
	c.Server.AllowOrigin = getenv("TRIAGE_ALLOW_ORIGIN", c.Server.AllowOrigin)
	c.Server.MaxBodyBytes = int64(getenvInt("TRIAGE_MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))
	c.Server.ShutdownTimeout = getenvDuration("TRIAGE_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Engine.ModelDir = getenv("TRIAGE_MODEL_DIR", c.Engine.ModelDir)
	c.Engine.OrtLib = getenv("TRIAGE_ORT_LIB", c.Engine.OrtLib)
	c.Engine.Accelerated = getenvBool("TRIAGE_ACCELERATED", c.Engine.Accelerated)
	c.Engine.DeviceID = getenvInt("TRIAGE_DEVICE_ID", c.Engine.DeviceID)
	c.Engine.MaxLength = getenvInt("TRIAGE_MAX_LENGTH", c.Engine.MaxLength)
	c.Engine.Threads = getenvInt("TRIAGE_THREADS", c.Engine.Threads)
	c.Engine.Serialize = getenvBool("TRIAGE_SERIALIZE", c.Engine.Serialize)

	c.Dataset.Dir = getenv("TRIAGE_DATASET_DIR", c.Dataset.Dir)
	c.Dataset.Output = getenv("TRIAGE_DATASET_OUTPUT", c.Dataset.Output)
	c.Dataset.TokenizerDir = getenv("TRIAGE_TOKENIZER_DIR", c.Dataset.TokenizerDir)
	c.Dataset.Strict = getenvBool("TRIAGE_DATASET_STRICT", c.Dataset.Strict)

	c.Log.Level = getenv("TRIAGE_LOG_LEVEL", c.Log.Level)
	c.Log.JSON = getenvBool("TRIAGE_LOG_JSON", c.Log.JSON)

	c.Client.BaseURL = getenv("TRIAGE_URL", c.Client.BaseURL)
	c.Client.Timeout = getenvDuration("TRIAGE_CLIENT_TIMEOUT", c.Client.Timeout)
}

// Validate checks the configuration for errors. Every problem is reported,
// not just the first.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server address is empty (TRIAGE_ADDR)"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body bytes must be positive, got %d (TRIAGE_MAX_BODY_BYTES)", c.Server.MaxBodyBytes))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be non-negative, got %v (TRIAGE_SHUTDOWN_TIMEOUT)", c.Server.ShutdownTimeout))
	}

	if strings.TrimSpace(c.Engine.ModelDir) == "" {
		errs = append(errs, errors.New("model directory is empty (TRIAGE_MODEL_DIR)"))
	}
	if c.Engine.MaxLength < 8 || c.Engine.MaxLength > 512 {
		errs = append(errs, fmt.Errorf("max length must be between 8 and 512, got %d (TRIAGE_MAX_LENGTH)", c.Engine.MaxLength))
	}
	if c.Engine.DeviceID < 0 {
		errs = append(errs, fmt.Errorf("device id must be non-negative, got %d (TRIAGE_DEVICE_ID)", c.Engine.DeviceID))
	}
	if c.Engine.Threads < 0 {
		errs = append(errs, fmt.Errorf("threads must be non-negative, got %d (TRIAGE_THREADS)", c.Engine.Threads))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log level must be debug, info, warn or error, got %q (TRIAGE_LOG_LEVEL)", c.Log.Level))
	}

	return errors.Join(errs...)
}

// ValidateDataset checks the settings used by dataset preparation.
func (c Config) ValidateDataset() error {
	var errs []error
	if fi, err := os.Stat(c.Dataset.Dir); err != nil {
		errs = append(errs, fmt.Errorf("dataset directory: %w (TRIAGE_DATASET_DIR)", err))
	} else if !fi.IsDir() {
		errs = append(errs, fmt.Errorf("dataset directory %s is not a directory (TRIAGE_DATASET_DIR)", c.Dataset.Dir))
	}
	if strings.TrimSpace(c.Dataset.Output) == "" {
		errs = append(errs, errors.New("dataset output is empty (TRIAGE_DATASET_OUTPUT)"))
	}
	if c.Engine.MaxLength < 8 || c.Engine.MaxLength > 512 {
		errs = append(errs, fmt.Errorf("max length must be between 8 and 512, got %d (TRIAGE_MAX_LENGTH)", c.Engine.MaxLength))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getenvDuration accepts Go durations ("10s") and bare integers as seconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

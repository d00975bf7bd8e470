// Package config provides configuration loading for scitrans.
// Values come from a YAML file, then environment variables (optionally seeded from .env).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical-ai/scitrans/internal/domain"
)

const (
	// DefaultInferenceEndpoint is the text-generation model used when none is configured.
	DefaultInferenceEndpoint = "https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"

	// KeyTermSourceModel takes key terms from the generated JSON.
	KeyTermSourceModel = "model"
	// KeyTermSourceEntities derives key terms from a named-entity endpoint.
	KeyTermSourceEntities = "entities"

	PDFBackendPure  = "pure"
	PDFBackendMuPDF = "mupdf"
)

// Config holds all configuration for scitrans.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Inference     InferenceConfig     `yaml:"inference"`
	Translation   TranslationConfig   `yaml:"translation"`
	Extraction    ExtractionConfig    `yaml:"extraction"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// InferenceConfig holds upstream inference settings.
type InferenceConfig struct {
	APIKey           string        `yaml:"api_key"`
	Endpoint         string        `yaml:"endpoint"`
	EntityEndpoint   string        `yaml:"entity_endpoint"`
	MaxAttempts      int           `yaml:"max_attempts"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
	MaxConcurrent    int64         `yaml:"max_concurrent"`
}

// TranslationConfig holds orchestrator settings.
type TranslationConfig struct {
	KeyTermSource string `yaml:"key_term_source"` // model or entities
	MaxInputChars int    `yaml:"max_input_chars"`
	BatchWorkers  int    `yaml:"batch_workers"`
}

// ExtractionConfig holds document extraction settings.
type ExtractionConfig struct {
	PDFBackend string `yaml:"pdf_backend"` // pure or mupdf
	MaxPages   int    `yaml:"max_pages"`
}

// RateLimitConfig holds per-client request limiting for the HTTP API.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// LoadDotEnv seeds the environment from the given .env files. Missing files are ignored.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads configuration from a YAML file and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with defaults for everything but the API key.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             5000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     90 * time.Second,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   60 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   20 << 20,
			AllowedOrigins:   []string{"*"},
		},
		Inference: InferenceConfig{
			Endpoint:         DefaultInferenceEndpoint,
			MaxAttempts:      3,
			RetryDelay:       time.Second,
			Timeout:          30 * time.Second,
			MaxResponseBytes: 4 << 20,
			MaxConcurrent:    8,
		},
		Translation: TranslationConfig{
			KeyTermSource: KeyTermSourceModel,
			MaxInputChars: 12000,
			BatchWorkers:  4,
		},
		Extraction: ExtractionConfig{
			PDFBackend: PDFBackendPure,
			MaxPages:   500,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "scitrans",
		},
	}
}

// Validate checks the configuration for errors. A missing API key is fatal.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Inference.APIKey) == "" {
		return domain.ConfigError("inference API key is not set (HUGGINGFACE_API_KEY)", nil)
	}

	if c.Inference.Endpoint == "" {
		return domain.ConfigError("inference endpoint is required", nil)
	}

	if c.Inference.MaxAttempts < 1 {
		return domain.ConfigError(fmt.Sprintf("max_attempts must be at least 1, got %d", c.Inference.MaxAttempts), nil)
	}

	if c.Inference.RetryDelay < 0 {
		return domain.ConfigError("retry_delay must not be negative", nil)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.ConfigError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	switch c.Translation.KeyTermSource {
	case KeyTermSourceModel:
	case KeyTermSourceEntities:
		if c.Inference.EntityEndpoint == "" {
			return domain.ConfigError("key_term_source=entities requires inference.entity_endpoint", nil)
		}
	default:
		return domain.ConfigError(fmt.Sprintf("invalid key_term_source: %s", c.Translation.KeyTermSource), nil)
	}

	if c.Extraction.PDFBackend != PDFBackendPure && c.Extraction.PDFBackend != PDFBackendMuPDF {
		return domain.ConfigError(fmt.Sprintf("invalid pdf_backend: %s", c.Extraction.PDFBackend), nil)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return domain.ConfigError("rate_limit requires positive requests_per_second and burst", nil)
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := firstEnv("HUGGINGFACE_API_KEY", "HF_API_KEY"); v != "" {
		cfg.Inference.APIKey = v
	}

	if v := os.Getenv("INFERENCE_ENDPOINT"); v != "" {
		cfg.Inference.Endpoint = v
	}

	if v := os.Getenv("ENTITY_ENDPOINT"); v != "" {
		cfg.Inference.EntityEndpoint = v
	}

	if v := os.Getenv("INFERENCE_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError("INFERENCE_MAX_ATTEMPTS", err)
		}
		cfg.Inference.MaxAttempts = n
	}

	if v := os.Getenv("INFERENCE_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.ConfigError("INFERENCE_RETRY_DELAY", err)
		}
		cfg.Inference.RetryDelay = d
	}

	if v := os.Getenv("KEY_TERM_SOURCE"); v != "" {
		cfg.Translation.KeyTermSource = v
	}

	if v := os.Getenv("PDF_BACKEND"); v != "" {
		cfg.Extraction.PDFBackend = v
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError("SERVER_PORT", err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

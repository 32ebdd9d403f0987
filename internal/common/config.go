package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the pipeline configuration
type Config struct {
	Data    DataConfig    `toml:"data"`
	ETL     ETLConfig     `toml:"etl"`
	LLM     LLMConfig     `toml:"llm"`
	Claude  ClaudeConfig  `toml:"claude"`
	Gemini  GeminiConfig  `toml:"gemini"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// DataConfig locates the raw and curated flat files
type DataConfig struct {
	Root   string `toml:"root" validate:"required"` // Data root (default: ~/Documents/Projects/spectorr/spectorr-data)
	RunKey string `toml:"run_key"`                  // Optional per-run isolation key; curated outputs go to curated/runs/<run_key>
	Raw    string `toml:"raw_dir"`                  // Raw input directory override (default: <root>/raw)
}

type ETLConfig struct {
	MaxRows         int  `toml:"max_rows" validate:"gte=0"` // Keep only the first N cleaned rows (0 = no cap)
	LexiconFallback bool `toml:"lexicon_fallback"`          // Score rows with an empty sentiment_score cell via the lexicon instead of dropping them
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig holds provider-agnostic summarisation settings
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=claude gemini"` // "claude" or "gemini" (default: "claude")
	Concurrency     int         `toml:"concurrency" validate:"gte=1"`                    // Groups summarised in parallel (default: 1)
	RateLimit       string      `toml:"rate_limit"`                                      // Minimum spacing between model calls, e.g. "1s" (default: none)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`                           // Override API endpoint (empty = SDK default)
	Model       string  `toml:"model" validate:"required"`          // default: "claude-3-haiku-20240307"
	MaxTokens   int     `toml:"max_tokens" validate:"gt=0"`         // default: 800
	Temperature float64 `toml:"temperature" validate:"gte=0,lte=1"` // default: 0.2
	Timeout     string  `toml:"timeout"`                            // Per-call timeout (default: "60s")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "gemini-2.5-flash"
	MaxTokens   int     `toml:"max_tokens"`  // default: 800
	Temperature float32 `toml:"temperature"` // default: 0.2
	Timeout     string  `toml:"timeout"`     // default: "60s"
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type MetricsConfig struct {
	Textfile string `toml:"textfile"` // Write Prometheus text exposition here at the end of a run (empty = off)
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Root: "~/Documents/Projects/spectorr/spectorr-data",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
			Concurrency:     1, // Sequential, one group at a time
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-haiku-20240307",
			MaxTokens:   800,
			Temperature: 0.2,
			Timeout:     "60s",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			MaxTokens:   800,
			Temperature: 0.2,
			Timeout:     "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Later files override earlier ones
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	config.Data.Root = ExpandHome(config.Data.Root)
	config.Data.Raw = ExpandHome(config.Data.Raw)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Data location
	if root := os.Getenv("SPECTORR_DATA_ROOT"); root != "" {
		config.Data.Root = root
	} else if root := os.Getenv("SPECTORR_DATA"); root != "" {
		config.Data.Root = root // Older CLI name
	}
	if rawDir := os.Getenv("SPECTORR_RAW_DIR"); rawDir != "" {
		config.Data.Raw = rawDir
	}
	if runKey := os.Getenv("SPECTORR_RUN_KEY"); runKey != "" {
		config.Data.RunKey = runKey
	}

	// ETL
	if maxRows := os.Getenv("SPECTORR_ETL_MAX_ROWS"); maxRows != "" {
		if n, err := strconv.Atoi(maxRows); err == nil && n > 0 {
			config.ETL.MaxRows = n
		}
	}
	if fallback := os.Getenv("SPECTORR_ETL_LEXICON_FALLBACK"); fallback != "" {
		if b, err := strconv.ParseBool(fallback); err == nil {
			config.ETL.LexiconFallback = b
		}
	}

	// LLM
	if provider := os.Getenv("SPECTORR_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if concurrency := os.Getenv("SPECTORR_LLM_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.LLM.Concurrency = c
		}
	}
	if rateLimit := os.Getenv("SPECTORR_LLM_RATE_LIMIT"); rateLimit != "" {
		config.LLM.RateLimit = rateLimit
	}

	// Claude
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("SPECTORR_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // SPECTORR_ prefix takes priority
	}
	if baseURL := os.Getenv("SPECTORR_CLAUDE_BASE_URL"); baseURL != "" {
		config.Claude.BaseURL = baseURL
	}
	if model := os.Getenv("SPECTORR_ANTHROPIC_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("SPECTORR_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
			config.Gemini.MaxTokens = mt
		}
	}
	if temperature := os.Getenv("SPECTORR_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 64); err == nil {
			config.Claude.Temperature = t
			config.Gemini.Temperature = float32(t)
		}
	}
	if timeout := os.Getenv("SPECTORR_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	// Gemini
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("SPECTORR_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("SPECTORR_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Logging
	if level := os.Getenv("SPECTORR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SPECTORR_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Metrics
	if textfile := os.Getenv("SPECTORR_METRICS_TEXTFILE"); textfile != "" {
		config.Metrics.Textfile = textfile
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, logLevel string) {
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// Validate checks field constraints and duration strings
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.LLM.RateLimitDuration(); err != nil {
		return err
	}
	if _, err := ParseTimeout(c.Claude.Timeout); err != nil {
		return fmt.Errorf("invalid claude timeout: %w", err)
	}
	if _, err := ParseTimeout(c.Gemini.Timeout); err != nil {
		return fmt.Errorf("invalid gemini timeout: %w", err)
	}
	return nil
}

// RateLimitDuration parses RateLimit; an empty value disables pacing.
func (c LLMConfig) RateLimitDuration() (time.Duration, error) {
	if c.RateLimit == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RateLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid rate_limit '%s': %w", c.RateLimit, err)
	}
	return d, nil
}

// ParseTimeout parses a duration string, falling back to 60s when empty
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 60 * time.Second, nil
	}
	return time.ParseDuration(s)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

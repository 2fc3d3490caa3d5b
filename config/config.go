// Package config holds the library configuration, loaded from the
// environment or built programmatically with functional options.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/teilomillet/chatagent/utils"
)

// MemoryBudget sets the per-content-type token budgets applied by the
// last-max-token-size transformers of a default agent.
type MemoryBudget struct {
	ShortTermTokens         int `env:"CHATAGENT_SHORT_TERM_TOKENS" envDefault:"1000"`
	LongTermTokens          int `env:"CHATAGENT_LONG_TERM_TOKENS" envDefault:"1000"`
	ExternalKnowledgeTokens int `env:"CHATAGENT_EXTERNAL_KNOWLEDGE_TOKENS" envDefault:"2000"`
}

// Qdrant holds connection settings for the qdrant-backed vector store.
type Qdrant struct {
	Host       string `env:"QDRANT_HOST" envDefault:"localhost"`
	Port       int    `env:"QDRANT_PORT" envDefault:"6334"`
	Collection string `env:"QDRANT_COLLECTION" envDefault:"chatagent"`
}

type Config struct {
	Provider    string        `env:"CHATAGENT_PROVIDER" envDefault:"openai" validate:"required"`
	Model       string        `env:"CHATAGENT_MODEL" envDefault:"gpt-4o-mini" validate:"required"`
	Endpoint    string        `env:"CHATAGENT_ENDPOINT"`
	Temperature float64       `env:"CHATAGENT_TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	MaxTokens   int           `env:"CHATAGENT_MAX_TOKENS" envDefault:"1024" validate:"gt=0"`
	Timeout     time.Duration `env:"CHATAGENT_TIMEOUT" envDefault:"30s"`
	MaxRetries  int           `env:"CHATAGENT_MAX_RETRIES" envDefault:"3" validate:"gte=0"`
	RetryDelay  time.Duration `env:"CHATAGENT_RETRY_DELAY" envDefault:"2s"`

	// RequestsPerSecond caps outgoing completion requests; zero disables
	// the limiter.
	RequestsPerSecond float64 `env:"CHATAGENT_REQUESTS_PER_SECOND" envDefault:"0" validate:"gte=0"`

	// MaxFunctionRounds bounds the function-calling exchange: one round is
	// one model response that requests tool use.
	MaxFunctionRounds int `env:"CHATAGENT_MAX_FUNCTION_ROUNDS" envDefault:"5" validate:"gt=0"`

	// TolerateRetrieverErrors degrades retrieval failures to partial
	// context instead of aborting the request. Off unless opted into.
	TolerateRetrieverErrors bool `env:"CHATAGENT_TOLERATE_RETRIEVER_ERRORS" envDefault:"false"`

	LogLevel     utils.LogLevel `env:"CHATAGENT_LOG_LEVEL" envDefault:"WARN"`
	APIKeys      map[string]string
	ExtraHeaders map[string]string

	MemoryBudget MemoryBudget
	Qdrant       Qdrant
}

var validate = validator.New()

// LoadConfig reads configuration from the environment. API keys are picked
// up from every *_API_KEY variable, keyed by the lowercased prefix.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		APIKeys:      make(map[string]string),
		ExtraHeaders: make(map[string]string),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	loadAPIKeys(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAPIKeys(cfg *Config) {
	for _, envVar := range os.Environ() {
		key, value, found := strings.Cut(envVar, "=")
		if found && strings.HasSuffix(strings.ToUpper(key), "_API_KEY") {
			provider := strings.TrimSuffix(strings.ToUpper(key), "_API_KEY")
			cfg.APIKeys[strings.ToLower(provider)] = value
		}
	}
}

// Validate checks the struct against its validation tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// NewConfig returns a Config with library defaults, for programmatic use.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		Temperature:       0.7,
		MaxTokens:         1024,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
		MaxFunctionRounds: 5,
		LogLevel:          utils.LogLevelWarn,
		APIKeys:           make(map[string]string),
		ExtraHeaders:      make(map[string]string),
		MemoryBudget: MemoryBudget{
			ShortTermTokens:         1000,
			LongTermTokens:          1000,
			ExternalKnowledgeTokens: 2000,
		},
		Qdrant: Qdrant{
			Host:       "localhost",
			Port:       6334,
			Collection: "chatagent",
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

type ConfigOption func(*Config)

func SetProvider(provider string) ConfigOption {
	return func(c *Config) { c.Provider = provider }
}

func SetModel(model string) ConfigOption {
	return func(c *Config) { c.Model = model }
}

func SetEndpoint(endpoint string) ConfigOption {
	return func(c *Config) { c.Endpoint = endpoint }
}

func SetAPIKey(provider, key string) ConfigOption {
	return func(c *Config) { c.APIKeys[provider] = key }
}

func SetTemperature(temperature float64) ConfigOption {
	return func(c *Config) { c.Temperature = temperature }
}

func SetMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) { c.MaxTokens = maxTokens }
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) { c.Timeout = timeout }
}

func SetMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) { c.MaxRetries = maxRetries }
}

func SetRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) { c.RetryDelay = delay }
}

func SetRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) { c.RequestsPerSecond = rps }
}

func SetMaxFunctionRounds(rounds int) ConfigOption {
	return func(c *Config) { c.MaxFunctionRounds = rounds }
}

func SetTolerateRetrieverErrors(tolerate bool) ConfigOption {
	return func(c *Config) { c.TolerateRetrieverErrors = tolerate }
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) { c.LogLevel = level }
}

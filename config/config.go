package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	BackendOpenAI  = "openai"
	BackendWebhook = "webhook"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin and zap to release mode

	// Generation Backend
	GeneratorBackend string        `mapstructure:"GENERATOR_BACKEND"` // "openai" or "webhook"
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`   // upper bound for one generation call

	// OpenAI Configuration
	OpenAIKey     string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string  `mapstructure:"OPENAI_MODEL"`    // e.g., "gpt-4o"
	OpenAIBaseURL string  `mapstructure:"OPENAI_BASE_URL"` // optional, for OpenAI-compatible gateways
	MaxTokens     int     `mapstructure:"MAX_TOKENS"`
	Temperature   float32 `mapstructure:"TEMPERATURE"`

	// Webhook Configuration
	WebhookURL string `mapstructure:"WEBHOOK_URL"` // generation workflow endpoint receiving {prompt, messages}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("GENERATOR_BACKEND", BackendOpenAI)
	v.SetDefault("REQUEST_TIMEOUT", 120*time.Second)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("MAX_TOKENS", 4096)
	v.SetDefault("TEMPERATURE", 0.3)
	v.SetDefault("WEBHOOK_URL", "")
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "error reading config file")
		}
		zap.S().Info("Config file ('config.yaml') not found, relying on environment variables.")
	} else {
		zap.S().Infof("Using configuration file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unable to decode config into struct")
	}
	cfg.GeneratorBackend = strings.ToLower(strings.TrimSpace(cfg.GeneratorBackend))
	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c Config) Validate() []error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	switch c.GeneratorBackend {
	case BackendOpenAI:
		if c.OpenAIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai backend"))
		}
		if c.OpenAIModel == "" {
			errs = append(errs, errors.New("OPENAI_MODEL is required for the openai backend"))
		}
	case BackendWebhook:
		if c.WebhookURL == "" {
			errs = append(errs, errors.New("WEBHOOK_URL is required for the webhook backend"))
		}
	default:
		errs = append(errs, errors.Errorf("unknown GENERATOR_BACKEND %q", c.GeneratorBackend))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, errors.Errorf("TEMPERATURE must be within [0, 2], got %v", c.Temperature))
	}
	return errs
}

// IsProduction reports whether the service runs with release settings.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "VOKABEL"

// defaults are registered with viper so AutomaticEnv can override every key.
var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.shutdown_timeout_seconds": 10,
	"server.allowed_origin":           "*",

	"storage.path": "vokabel.db",

	"cloud.enabled":               false,
	"cloud.database_url":          "",
	"cloud.sync_interval_minutes": 0,

	"llm.provider":                "none",
	"llm.gemini_api_key":          "",
	"llm.openai_api_key":          "",
	"llm.openai_base_url":         "",
	"llm.model_name":              "",
	"llm.temperature":             0.7,
	"llm.prompt_template_path":    "",
	"llm.max_retries":             2,
	"llm.retry_delay_seconds":     1,
	"llm.request_timeout_seconds": 30,

	"trainer.default_profile":        "default",
	"trainer.default_stack_size":     10,
	"trainer.max_stack_size":         100,
	"trainer.default_topic":          "Alltag",
	"trainer.default_generate_count": 10,
	"trainer.max_generate_count":     50,
	"trainer.max_generate_rounds":    3,

	"task.worker_count": 2,
	"task.queue_size":   100,
}

// Load configuration from defaults, an optional config.yaml in the working
// directory, a .env file and environment variables, in increasing order of
// precedence. Returns a populated Config or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

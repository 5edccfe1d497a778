package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Cloud   CloudConfig   `mapstructure:"cloud"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Trainer TrainerConfig `mapstructure:"trainer" validate:"required"`
	Task    TaskConfig    `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	AllowedOrigin          string `mapstructure:"allowed_origin" validate:"required"`
}

// StorageConfig locates the local slot database.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// CloudConfig controls the optional Postgres-backed profile sync.
type CloudConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	DatabaseURL         string `mapstructure:"database_url" validate:"required_if=Enabled true"`
	SyncIntervalMinutes int    `mapstructure:"sync_interval_minutes" validate:"gte=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// Provider selects the generator backend; "none" disables generation.
	Provider              string  `mapstructure:"provider" validate:"required,oneof=none gemini openai"`
	GeminiAPIKey          string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey          string  `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	OpenAIBaseURL         string  `mapstructure:"openai_base_url" validate:"omitempty,url"`
	ModelName             string  `mapstructure:"model_name"`
	Temperature           float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	PromptTemplatePath    string  `mapstructure:"prompt_template_path"`
	MaxRetries            int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds     int     `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gt=0,lte=120"`
}

// TrainerConfig holds the defaults of the learning and import flows.
type TrainerConfig struct {
	DefaultProfile       string `mapstructure:"default_profile" validate:"required"`
	DefaultStackSize     int    `mapstructure:"default_stack_size" validate:"gt=0"`
	MaxStackSize         int    `mapstructure:"max_stack_size" validate:"gtefield=DefaultStackSize"`
	DefaultTopic         string `mapstructure:"default_topic" validate:"required"`
	DefaultGenerateCount int    `mapstructure:"default_generate_count" validate:"gt=0"`
	MaxGenerateCount     int    `mapstructure:"max_generate_count" validate:"gtefield=DefaultGenerateCount"`
	MaxGenerateRounds    int    `mapstructure:"max_generate_rounds" validate:"gt=0,lte=10"`
}

// TaskConfig sizes the background job runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`
}

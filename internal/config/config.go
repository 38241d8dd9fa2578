package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"        validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Summary   SummaryConfig   `mapstructure:"summary"    validate:"required"`
	Task      TaskConfig      `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// RedisConfig contains the connection settings for the rate-limit counter
// store. When Addr is empty the limiter falls back to the in-memory store.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=0,lte=31"`
}

// LLMConfig contains the settings for the external generation provider.
type LLMConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxAttempts bounds the retry wrapper: total calls, not retries.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gt=0"`

	// MinWaitSeconds and MaxWaitSeconds bound the exponential backoff
	// between retryable attempts.
	MinWaitSeconds int `mapstructure:"min_wait_seconds" validate:"required,gt=0"`
	MaxWaitSeconds int `mapstructure:"max_wait_seconds" validate:"required,gtefield=MinWaitSeconds"`

	// RequestTimeoutSeconds is the per-attempt deadline for a provider call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// RateLimitConfig contains the admission-control quota settings.
type RateLimitConfig struct {
	// MaxRequests is the number of summary generations allowed per user
	// within one window.
	MaxRequests int `mapstructure:"max_requests" validate:"required,gt=0"`

	// WindowHours is the fixed-window length. A burst straddling a window
	// boundary can admit up to twice MaxRequests; that is an accepted
	// property of the fixed-window policy.
	WindowHours int `mapstructure:"window_hours" validate:"required,gt=0"`

	// Atomic selects the single increment-and-compare admission check
	// instead of the default read-then-increment, which can over-admit
	// under concurrency.
	Atomic bool `mapstructure:"atomic"`
}

// SummaryConfig contains the polling-client settings for the fire-and-wait
// endpoint.
type SummaryConfig struct {
	// TimeoutSeconds is the client patience budget, not a kill signal:
	// a job keeps running after the poll gives up.
	TimeoutSeconds      int     `mapstructure:"timeout_seconds"       validate:"required,gt=0"`
	PollIntervalSeconds float64 `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`
}

// TaskConfig contains the background task runner settings.
type TaskConfig struct {
	WorkerCount        int `mapstructure:"worker_count"          validate:"required,gt=0"`
	QueueSize          int `mapstructure:"queue_size"            validate:"required,gt=0"`
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"required,gt=0"`
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Throttle ThrottleConfig
}

type AuthConfig struct {
	// JWTSecret signs issued access tokens. Required outside development.
	JWTSecret string `env:"JWT_SECRET, default=dev-secret"`
	// CodeSecret keys the confirmation-code HMAC. Rotating it invalidates
	// every outstanding code.
	CodeSecret string        `env:"CODE_SECRET, default=dev-code-secret"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=yamdb"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures confirmation-code delivery. When Host is empty the
// service falls back to logging codes instead of sending mail.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	From     string `env:"SMTP_FROM, default=noreply@yamdb.local"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

type ThrottleConfig struct {
	SignupLimit  int           `env:"SIGNUP_LIMIT,  default=5"`
	SignupWindow time.Duration `env:"SIGNUP_WINDOW, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

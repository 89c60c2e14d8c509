package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/anonforum/forum/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments in which a weak SECRET_KEY is tolerated.
var devEnvironments = map[string]bool{"development": true, "test": true}

// Secrets that must never reach staging or production.
var weakSecrets = map[string]bool{"": true, "dev-secret-key": true, "changeme": true, "secret": true}

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Comments  CommentsConfig
	Security  SecurityConfig
	Archive   storage.MinIOConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string `validate:"required,numeric"`
	Host            string
	Environment     string `validate:"oneof=development test staging production"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver selects the comment store: sqlite, postgres, mongo or memory.
	Driver string `validate:"oneof=sqlite postgres mongo memory"`
	URL    string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return net.JoinHostPort(r.Host, r.Port)
}

type RateLimitConfig struct {
	Enabled        bool
	UseRedis       bool
	GlobalPerHour  int `validate:"gte=0"`
	WritePerMinute int `validate:"gte=0"`
	ReadPerMinute  int `validate:"gte=0"`
	TrustForwarded bool
}

type CommentsConfig struct {
	MaxLength      int   `validate:"gte=1,lte=100000"`
	MaxBodyBytes   int64 `validate:"gte=1024"`
	FormSilentDrop bool
}

type SecurityConfig struct {
	SecretKey     string
	CSRFEnabled   bool
	CSRFTTL       time.Duration
	SecureCookies bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "production")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "data/board.db")
	viper.SetDefault("MONGODB_DATABASE", "board")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RATELIMIT_ENABLED", true)
	viper.SetDefault("RATELIMIT_USE_REDIS", false)
	viper.SetDefault("RATELIMIT_GLOBAL_PER_HOUR", 200)
	viper.SetDefault("RATELIMIT_WRITE_PER_MINUTE", 60)
	viper.SetDefault("RATELIMIT_READ_PER_MINUTE", 300)
	viper.SetDefault("RATELIMIT_TRUST_FORWARDED", true)
	viper.SetDefault("COMMENT_MAX_LENGTH", 5000)
	viper.SetDefault("MAX_BODY_BYTES", 64*1024)
	viper.SetDefault("FORM_SILENT_DROP", true)
	viper.SetDefault("SECRET_KEY", "dev-secret-key")
	viper.SetDefault("CSRF_ENABLED", true)
	viper.SetDefault("CSRF_TTL_MINUTES", 720)
	viper.SetDefault("SECURE_COOKIES", false)
	viper.SetDefault("MINIO_BUCKET", "board-archive")
	viper.SetDefault("MINIO_USE_SSL", false)

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     strings.ToLower(viper.GetString("SERVER_ENVIRONMENT")),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Duration(viper.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(viper.GetString("DB_DRIVER")),
			URL:    viper.GetString("DATABASE_URL"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:        viper.GetBool("RATELIMIT_ENABLED"),
			UseRedis:       viper.GetBool("RATELIMIT_USE_REDIS"),
			GlobalPerHour:  viper.GetInt("RATELIMIT_GLOBAL_PER_HOUR"),
			WritePerMinute: viper.GetInt("RATELIMIT_WRITE_PER_MINUTE"),
			ReadPerMinute:  viper.GetInt("RATELIMIT_READ_PER_MINUTE"),
			TrustForwarded: viper.GetBool("RATELIMIT_TRUST_FORWARDED"),
		},
		Comments: CommentsConfig{
			MaxLength:      viper.GetInt("COMMENT_MAX_LENGTH"),
			MaxBodyBytes:   viper.GetInt64("MAX_BODY_BYTES"),
			FormSilentDrop: viper.GetBool("FORM_SILENT_DROP"),
		},
		Security: SecurityConfig{
			SecretKey:     viper.GetString("SECRET_KEY"),
			CSRFEnabled:   viper.GetBool("CSRF_ENABLED"),
			CSRFTTL:       time.Duration(viper.GetInt("CSRF_TTL_MINUTES")) * time.Minute,
			SecureCookies: viper.GetBool("SECURE_COOKIES"),
		},
		Archive: storage.MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints plus the cross-field rules that struct
// tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid configuration: %s", ve.Error())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !devEnvironments[c.Server.Environment] && (weakSecrets[c.Security.SecretKey] || len(c.Security.SecretKey) < 32) {
		return errors.New("SECURITY: SECRET_KEY must be set to a strong non-default value (32+ characters)")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %s", c.Database.Driver)
		}
	case "mongo":
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI is required for driver mongo")
		}
	}
	if c.RateLimit.UseRedis && c.Redis.Host == "" {
		return errors.New("REDIS_HOST is required when RATELIMIT_USE_REDIS is set")
	}
	return nil
}

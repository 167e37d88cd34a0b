package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Auth providers accepted in auth.provider
const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL    string `yaml:"public_url" env:"PUBLIC_URL"`
		StoragePath  string `yaml:"storage_path" env:"STORAGE_PATH"`
		MaxUploadMB  int    `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	CORS struct {
		// ClientDomain is the frontend origin allowed to call the API
		ClientDomain string   `yaml:"client_domain" env:"CLIENT_DOMAIN"`
		ExtraOrigins []string `yaml:"extra_origins" env:"CORS_EXTRA_ORIGINS"`
	} `yaml:"cors"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		CacheTTL string `yaml:"cache_ttl" env:"REDIS_CACHE_TTL"`
	} `yaml:"redis"`

	Auth struct {
		Provider string `yaml:"provider" env:"AUTH_PROVIDER"`
		// FirebaseServiceKey is the base64-encoded service account JSON
		FirebaseServiceKey string `yaml:"firebase_service_key" env:"FB_SERVICE_KEY"`
		JWTSecret          string `yaml:"jwt_secret" env:"JWT_SECRET"`
		JWTIssuer          string `yaml:"jwt_issuer" env:"JWT_ISSUER"`
		JWTExpiration      string `yaml:"jwt_expiration" env:"JWT_EXPIRATION"`
		AdminEmail         string `yaml:"admin_email" env:"ADMIN_EMAIL"`
	} `yaml:"auth"`

	Payment struct {
		StripeSecretKey string `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
		Currency        string `yaml:"currency" env:"PAYMENT_CURRENCY"`
		SuccessPath     string `yaml:"success_path" env:"PAYMENT_SUCCESS_PATH"`
		CancelPath      string `yaml:"cancel_path" env:"PAYMENT_CANCEL_PATH"`
		RateLimit       int    `yaml:"rate_limit" env:"PAYMENT_RATE_LIMIT"`
		RateWindow      string `yaml:"rate_window" env:"PAYMENT_RATE_WINDOW"`
	} `yaml:"payment"`

	Applications struct {
		StrictTransitions bool `yaml:"strict_transitions" env:"APPLICATIONS_STRICT_TRANSITIONS"`
	} `yaml:"applications"`

	SMTP struct {
		Host     string `yaml:"host" env:"SMTP_HOST"`
		Port     int    `yaml:"port" env:"SMTP_PORT"`
		Username string `yaml:"username" env:"SMTP_USERNAME"`
		Password string `yaml:"password" env:"SMTP_PASSWORD"`
		From     string `yaml:"from" env:"SMTP_FROM"`
		Timeout  string `yaml:"timeout" env:"SMTP_TIMEOUT"`
	} `yaml:"smtp"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, a YAML file and
// environment variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.MaxUploadMB = 5
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"

	config.CORS.ClientDomain = "http://localhost:5173"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "scholarhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Redis.CacheTTL = "5m"

	config.Auth.Provider = AuthProviderFirebase
	config.Auth.JWTIssuer = "scholarhub"
	config.Auth.JWTExpiration = "24h"

	config.Payment.Currency = "usd"
	config.Payment.SuccessPath = "/payment-success?session_id={CHECKOUT_SESSION_ID}"
	config.Payment.CancelPath = "/payment-cancelled"
	config.Payment.RateLimit = 10
	config.Payment.RateWindow = "1m"

	config.SMTP.Port = 587
	config.SMTP.Timeout = "10s"

	config.Seed.Enabled = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database url or host is required")
	}

	switch strings.ToLower(config.Auth.Provider) {
	case AuthProviderFirebase:
		if config.Auth.FirebaseServiceKey == "" {
			return fmt.Errorf("FB_SERVICE_KEY is required when auth provider is firebase")
		}
	case AuthProviderJWT:
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT secret is required when auth provider is jwt")
		}
		if _, err := time.ParseDuration(config.Auth.JWTExpiration); err != nil {
			return fmt.Errorf("invalid JWT expiration format: %w", err)
		}
	default:
		return fmt.Errorf("unknown auth provider %q", config.Auth.Provider)
	}

	if config.Payment.Currency == "" {
		return fmt.Errorf("payment currency is required")
	}
	if _, err := time.ParseDuration(config.Payment.RateWindow); err != nil {
		return fmt.Errorf("invalid payment rate window: %w", err)
	}
	if _, err := time.ParseDuration(config.Redis.CacheTTL); err != nil {
		return fmt.Errorf("invalid redis cache ttl: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns DATABASE_URL when set, otherwise a URL
// assembled from the discrete database fields.
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AllowedOrigins returns the CORS origins, client domain first
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, 1+len(c.CORS.ExtraOrigins))
	if c.CORS.ClientDomain != "" {
		origins = append(origins, strings.TrimRight(c.CORS.ClientDomain, "/"))
	}
	for _, o := range c.CORS.ExtraOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	return origins
}

// PaymentSuccessURL is the absolute checkout success redirect
func (c *Config) PaymentSuccessURL() string {
	return strings.TrimRight(c.CORS.ClientDomain, "/") + c.Payment.SuccessPath
}

// PaymentCancelURL is the absolute checkout cancel redirect
func (c *Config) PaymentCancelURL() string {
	return strings.TrimRight(c.CORS.ClientDomain, "/") + c.Payment.CancelPath
}

// PublicBaseURL is used to build links to uploaded files
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment   string              `mapstructure:"environment" yaml:"environment"`
	Server        ServerConfig        `mapstructure:"http_server" yaml:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Security      SecurityConfig      `mapstructure:"security" yaml:"security"`
	Ledger        LedgerConfig        `mapstructure:"ledger" yaml:"ledger"`
	Events        EventsConfig        `mapstructure:"events" yaml:"events"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" yaml:"port"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Source          string        `mapstructure:"source" yaml:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	ConnectRetries  int           `mapstructure:"connect_retries" yaml:"connect_retries"`
}

type SecurityConfig struct {
	JWTSecret           string          `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	AccessTokenDuration time.Duration   `mapstructure:"access_token_duration" yaml:"access_token_duration"`
	BCryptCost          int             `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
	RequireAuth         bool            `mapstructure:"require_auth" yaml:"require_auth"`
	LoginRateLimit      RateLimitConfig `mapstructure:"login_rate_limit" yaml:"login_rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`

	// TrustProxy keys clients on X-Forwarded-For; enable only behind a
	// reverse proxy that appends the caller's address.
	TrustProxy bool `mapstructure:"trust_proxy" yaml:"trust_proxy"`
}

type LedgerConfig struct {
	// MinutesFormula is "legacy" or "elapsed".
	MinutesFormula string `mapstructure:"minutes_formula" yaml:"minutes_formula"`
}

type EventsConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka" yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ----------------- DEFAULTS -----------------

// Defaults holds the fallback value of every key, in viper's dotted form.
var Defaults = map[string]interface{}{
	"environment":                           "development",
	"http_server.port":                      3004,
	"http_server.read_header_timeout":       5 * time.Second,
	"http_server.read_timeout":              15 * time.Second,
	"http_server.write_timeout":             15 * time.Second,
	"http_server.idle_timeout":              60 * time.Second,
	"http_server.shutdown_timeout":          30 * time.Second,
	"database.max_open_conns":               25,
	"database.max_idle_conns":               5,
	"database.conn_max_lifetime":            30 * time.Minute,
	"database.conn_max_idle_time":           5 * time.Minute,
	"database.connect_retries":              5,
	"security.access_token_duration":        time.Hour,
	"security.bcrypt_cost":                  10,
	"security.require_auth":                 false,
	"security.login_rate_limit.rps":         5.0,
	"security.login_rate_limit.burst":       10,
	"security.login_rate_limit.trust_proxy": false,
	"ledger.minutes_formula":                "legacy",
	"events.kafka.topic":                    "hr-records.ledger",
	"observability.logging.level":           "info",
	"observability.logging.format":          "text",
}

// LoadConfigFromEnv builds the config purely from APP_* variables, for
// container deployments that ship without a config file.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Environment: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("APP_PORT", getEnvAsInt("PORT", 3004)),
			BaseURL:           getEnv("APP_BASE_URL", ""),
			AllowedOrigins:    getEnv("APP_ALLOWED_ORIGINS", ""),
			ReadHeaderTimeout: getEnvAsDuration("APP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("APP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("APP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("APP_DATABASE_SOURCE", getEnv("DATABASE_URL", "")),
			MaxOpenConns:    getEnvAsInt("APP_DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("APP_DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("APP_DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("APP_DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			ConnectRetries:  getEnvAsInt("APP_DATABASE_CONNECT_RETRIES", 5),
		},
		Security: SecurityConfig{
			JWTSecret:           getEnv("APP_JWT_SECRET", getEnv("JWT_SECRET", "")),
			AccessTokenDuration: getEnvAsDuration("APP_ACCESS_TOKEN_DURATION", time.Hour),
			BCryptCost:          getEnvAsInt("APP_BCRYPT_COST", 10),
			RequireAuth:         getEnvAsBool("APP_REQUIRE_AUTH", false),
			LoginRateLimit: RateLimitConfig{
				RPS:        getEnvAsFloat("APP_LOGIN_RATE_LIMIT_RPS", 5),
				Burst:      getEnvAsInt("APP_LOGIN_RATE_LIMIT_BURST", 10),
				TrustProxy: getEnvAsBool("APP_LOGIN_RATE_LIMIT_TRUST_PROXY", false),
			},
		},
		Ledger: LedgerConfig{
			MinutesFormula: getEnv("APP_MINUTES_FORMULA", "legacy"),
		},
		Events: EventsConfig{
			Kafka: KafkaConfig{
				Brokers: getEnvAsList("APP_KAFKA_BROKERS"),
				Topic:   getEnv("APP_KAFKA_TOPIC", "hr-records.ledger"),
			},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("APP_LOG_LEVEL", "info"),
				Format: getEnv("APP_LOG_FORMAT", "json"),
			},
		},
	}
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Ledger.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("ledger config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins value.
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.ConnectRetries < 0 {
		return errors.New("connect_retries cannot be negative")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration < time.Minute {
		return errors.New("access_token_duration must be at least 1m")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return fmt.Errorf("bcrypt_cost must be between 10 and 15, got %d", c.BCryptCost)
	}
	if c.LoginRateLimit.RPS < 0 || c.LoginRateLimit.Burst < 0 {
		return errors.New("login_rate_limit values cannot be negative")
	}
	return nil
}

func (c *LedgerConfig) Validate() error {
	switch c.MinutesFormula {
	case "legacy", "elapsed":
		return nil
	default:
		return fmt.Errorf("minutes_formula must be legacy or elapsed, got %q", c.MinutesFormula)
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, got %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text, got %q", c.Format)
	}
	return nil
}

// Redacted returns a copy safe to print: secrets and DSN credentials masked.
func (c Config) Redacted() Config {
	out := c
	if out.Security.JWTSecret != "" {
		out.Security.JWTSecret = "********"
	}
	if u, err := url.Parse(out.Database.Source); err == nil && u.User != nil {
		if _, has := u.User.Password(); has {
			u.User = url.UserPassword(u.User.Username(), "********")
			out.Database.Source = u.String()
		}
	}
	return out
}

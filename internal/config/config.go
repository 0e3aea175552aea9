package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Security SecurityConfig `mapstructure:"security"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Pagarme  PagarmeConfig  `mapstructure:"pagarme"`
	Redis    RedisConfig    `mapstructure:"redis"`
	LGPD     LGPDConfig     `mapstructure:"lgpd"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// DebugErrors attaches raw error messages to 500 responses.
	DebugErrors bool `mapstructure:"debug_errors"`
}

// DatabaseConfig holds the document store (MySQL) configuration
type DatabaseConfig struct {
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	RunMigrations   bool          `mapstructure:"run_migrations"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	BasicAuth BasicAuthConfig `mapstructure:"basic_auth"`
}

// BasicAuthConfig holds basic authentication configuration
type BasicAuthConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Users   []BasicAuthUser `mapstructure:"users"`
}

// BasicAuthUser represents a basic auth user
type BasicAuthUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// PagarmeConfig holds payment gateway configuration
type PagarmeConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	SecretKey      string               `mapstructure:"secret_key"`
	WebhookSecret  string               `mapstructure:"webhook_secret"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// CircuitBreakerConfig holds gobreaker settings for the gateway client
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// RedisConfig holds the webhook deduplication cache configuration
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	DedupTTL time.Duration `mapstructure:"dedup_ttl"`
}

// LGPDConfig holds data-protection settings
type LGPDConfig struct {
	PolicyVersion       string `mapstructure:"policy_version"`
	AnonymizationDomain string `mapstructure:"anonymization_domain"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AQUIRESOLVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.run_migrations", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("pagarme.base_url", "https://api.pagar.me/core/v5")
	v.SetDefault("pagarme.timeout", 30*time.Second)
	v.SetDefault("pagarme.circuit_breaker.enabled", true)
	v.SetDefault("pagarme.circuit_breaker.max_requests", 1)
	v.SetDefault("pagarme.circuit_breaker.interval", 60*time.Second)
	v.SetDefault("pagarme.circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("pagarme.circuit_breaker.failure_threshold", 5)
	v.SetDefault("redis.dedup_ttl", 24*time.Hour)
	v.SetDefault("lgpd.policy_version", "1.0")
	v.SetDefault("lgpd.anonymization_domain", "anonimizado.aquiresolve.com")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Pagarme.SecretKey == "" {
		return fmt.Errorf("pagarme secret key is required")
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if config.Security.BasicAuth.Enabled && len(config.Security.BasicAuth.Users) == 0 {
		return fmt.Errorf("at least one basic auth user is required when basic auth is enabled")
	}

	return nil
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// Accounts returns the basic auth credentials in the shape gin.BasicAuth expects
func (s *SecurityConfig) Accounts() map[string]string {
	accounts := make(map[string]string, len(s.BasicAuth.Users))
	for _, user := range s.BasicAuth.Users {
		accounts[user.Username] = user.Password
	}
	return accounts
}

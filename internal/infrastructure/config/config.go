// Package config loads settings from config.toml and EDU_ environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Stripe    StripeConfig    `mapstructure:"stripe"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
	// Debug puts stack traces in webhook 500 bodies
	Debug bool `mapstructure:"debug"`
	// PublicBaseURL is the externally reachable origin shown in the API docs
	PublicBaseURL string `mapstructure:"public_base_url"`
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN renders a postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret                 string        `mapstructure:"secret"`
	RefreshSecret          string        `mapstructure:"refresh_secret"`
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string        `mapstructure:"issuer"`
	// MaxRefreshCount is how many rotations a session gets before re-login
	MaxRefreshCount int `mapstructure:"max_refresh_count"`
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	// An empty origin list rejects every cross-origin request
	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string `mapstructure:"trusted_proxies"`
}

// StripeConfig may be left empty; the webhook endpoint then answers 500 and
// classes are created without payment links.
type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	PublishableKey string `mapstructure:"publishable_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	TestMode       bool   `mapstructure:"test_mode"`
	Currency       string `mapstructure:"currency"`
}

// IsConfigured reports whether both secrets the webhook needs are present
func (s StripeConfig) IsConfigured() bool {
	return s.SecretKey != "" && s.WebhookSecret != ""
}

type WebhookConfig struct {
	IdempotencyEnabled bool          `mapstructure:"idempotency_enabled"`
	IdempotencyTTL     time.Duration `mapstructure:"idempotency_ttl"`
	IdempotencyBackend string        `mapstructure:"idempotency_backend"` // redis or memory
}

// StorageConfig points at the S3-compatible bucket holding institution logos
type StorageConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Region            string        `mapstructure:"region"`
	Bucket            string        `mapstructure:"bucket"`
	AccessKey         string        `mapstructure:"access_key"`
	SecretKey         string        `mapstructure:"secret_key"`
	UseSSL            bool          `mapstructure:"use_ssl"`
	UsePathStyle      bool          `mapstructure:"use_path_style"`
	PresignExpiration time.Duration `mapstructure:"presign_expiration"`
	PublicBaseURL     string        `mapstructure:"public_base_url"`
}

func (s StorageConfig) IsConfigured() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
	ProfilingEnabled  bool          `mapstructure:"profiling_enabled"`
	ProfilingServer   string        `mapstructure:"profiling_server"`
}

// defaults doubles as the list of known keys: viper only consults the
// environment for keys it has seen, so every setting appears here even
// when its default is empty.
var defaults = map[string]any{
	"app.name":            "edusaas-backend",
	"app.env":             "development",
	"app.port":            "8080",
	"app.debug":           false,
	"app.public_base_url": "",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "edusaas",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.access_token_expiration":  15 * time.Minute,
	"jwt.refresh_token_expiration": 7 * 24 * time.Hour,
	"jwt.issuer":                   "edusaas-backend",
	"jwt.max_refresh_count":        10,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            15 * time.Second,
	"http.idle_timeout":             time.Minute,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            1 << 20,
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	"http.cors_allow_origins":       []string{},
	"http.cors_allow_methods":       []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers":       []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":          []string{},

	"stripe.secret_key":      "",
	"stripe.publishable_key": "",
	"stripe.webhook_secret":  "",
	"stripe.test_mode":       false,
	"stripe.currency":        "usd",

	"webhook.idempotency_enabled": false,
	"webhook.idempotency_ttl":     24 * time.Hour,
	"webhook.idempotency_backend": "redis",

	"storage.endpoint":           "",
	"storage.region":             "us-east-1",
	"storage.bucket":             "",
	"storage.access_key":         "",
	"storage.secret_key":         "",
	"storage.use_ssl":            false,
	"storage.use_path_style":     true,
	"storage.presign_expiration": 15 * time.Minute,
	"storage.public_base_url":    "",

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "",
	"telemetry.insecure":                true,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.profiling_enabled":       false,
	"telemetry.profiling_server":        "http://localhost:4040",
}

// Load reads, in increasing priority, the defaults above, config.toml from
// the working directory (or ./backend, /app), and EDU_* variables such as
// EDU_STRIPE_WEBHOOK_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix("EDU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once
func (c *Config) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	db := c.Database
	switch {
	case db.MaxOpenConns <= 0:
		fail("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		fail("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		fail("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	}
	if b := c.Webhook.IdempotencyBackend; b != "redis" && b != "memory" {
		fail("webhook.idempotency_backend must be 'redis' or 'memory', got %q", b)
	}
	if r := c.Telemetry.SamplingRatio; r < 0 || r > 1 {
		fail("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", r)
	}

	if c.App.IsProduction() {
		switch {
		case c.JWT.Secret == "":
			fail("jwt.secret is required in production")
		case len(c.JWT.Secret) < 32:
			fail("jwt.secret must be at least 32 characters in production")
		}
		if db.Password == "" {
			fail("database.password is required in production")
		}
		if db.SSLMode == "disable" {
			fail("database.sslmode cannot be 'disable' in production")
		}
		if c.App.Debug {
			fail("app.debug must be false in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				fail("http.cors_allow_origins cannot be '*' in production")
			}
		}
		if s := c.Swagger; s.Enabled && !s.RequireAuth && len(s.AllowedIPs) == 0 {
			fail("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	SyncDB  SyncDBConfig  `yaml:"sync_db"`
	Auth    AuthConfig    `yaml:"auth"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

type AppConfig struct {
	Env       string `yaml:"env"`
	DevMode   bool   `yaml:"dev_mode"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type ServerConfig struct {
	CustomerAddr   string   `yaml:"customer_addr"`
	AdminAddr      string   `yaml:"admin_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// SyncDBConfig points at the relational database holding the bridge outbox
// and inbox. Driver is "sqlite" or "mysql".
type SyncDBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret           string        `yaml:"jwt_secret"`
	TokenTTL            time.Duration `yaml:"token_ttl"`
	DevAdminEmail       string        `yaml:"dev_admin_email"`
	DevAdminPassword    string        `yaml:"dev_admin_password"`
	DevAdminSecurityKey string        `yaml:"dev_admin_security_key"`
}

type BridgeConfig struct {
	CustomerURL      string        `yaml:"customer_url"`
	AdminURL         string        `yaml:"admin_url"`
	WebhookSecret    string        `yaml:"webhook_secret"`
	Outbox           bool          `yaml:"outbox"`
	DispatchInterval time.Duration `yaml:"dispatch_interval"`
	Timeout          time.Duration `yaml:"timeout"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:       "development",
			LogLevel:  "info",
			LogFormat: "text",
		},
		Server: ServerConfig{
			CustomerAddr:   ":5000",
			AdminAddr:      ":5001",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{DataDir: "data"},
		SyncDB:  SyncDBConfig{Driver: "sqlite"},
		Auth:    AuthConfig{TokenTTL: 24 * time.Hour},
		Bridge: BridgeConfig{
			CustomerURL:      "http://localhost:5000",
			AdminURL:         "http://localhost:5001",
			Outbox:           true,
			DispatchInterval: 2 * time.Second,
			Timeout:          5 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, then an optional YAML file,
// then the environment (a .env file in the working directory is loaded
// first when present).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.LogFormat = getEnv("LOG_FORMAT", c.App.LogFormat)

	c.Server.CustomerAddr = getEnv("CUSTOMER_ADDR", c.Server.CustomerAddr)
	c.Server.AdminAddr = getEnv("ADMIN_ADDR", c.Server.AdminAddr)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Storage.DataDir = getEnv("DATA_DIR", c.Storage.DataDir)
	c.SyncDB.Driver = getEnv("SYNC_DB_DRIVER", c.SyncDB.Driver)
	c.SyncDB.DSN = getEnv("SYNC_DB_DSN", c.SyncDB.DSN)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.DevAdminEmail = getEnv("DEV_ADMIN_EMAIL", c.Auth.DevAdminEmail)
	c.Auth.DevAdminPassword = getEnv("DEV_ADMIN_PASSWORD", c.Auth.DevAdminPassword)
	c.Auth.DevAdminSecurityKey = getEnv("DEV_ADMIN_SECURITY_KEY", c.Auth.DevAdminSecurityKey)

	c.Bridge.CustomerURL = getEnv("CUSTOMER_SERVICE_URL", c.Bridge.CustomerURL)
	c.Bridge.AdminURL = getEnv("ADMIN_SERVICE_URL", c.Bridge.AdminURL)
	c.Bridge.WebhookSecret = getEnv("WEBHOOK_SECRET", c.Bridge.WebhookSecret)

	var err error
	if c.App.DevMode, err = getBool("DEV_MODE", c.App.DevMode); err != nil {
		return err
	}
	if c.Bridge.Outbox, err = getBool("BRIDGE_OUTBOX", c.Bridge.Outbox); err != nil {
		return err
	}
	if c.Auth.TokenTTL, err = getDuration("TOKEN_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.Bridge.DispatchInterval, err = getDuration("BRIDGE_DISPATCH_INTERVAL", c.Bridge.DispatchInterval); err != nil {
		return err
	}
	if c.Bridge.Timeout, err = getDuration("BRIDGE_TIMEOUT", c.Bridge.Timeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.App.Env)
	return env == "" || env == "development" || env == "dev"
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		if c.IsDevelopment() {
			c.Auth.JWTSecret = "grill-dev-secret"
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required outside development"))
		}
	}
	switch c.SyncDB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unknown sync db driver %q", c.SyncDB.Driver))
	}
	if c.SyncDB.Driver == "mysql" && c.SyncDB.DSN == "" {
		errs = append(errs, errors.New("SYNC_DB_DSN is required for mysql"))
	}
	if c.Storage.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR must not be empty"))
	}
	if c.Bridge.DispatchInterval <= 0 {
		errs = append(errs, errors.New("bridge dispatch interval must be positive"))
	}
	if c.App.DevMode && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("DEV_MODE is not allowed in %s", c.App.Env))
	}
	if c.App.DevMode && (c.Auth.DevAdminEmail == "" || c.Auth.DevAdminPassword == "") {
		errs = append(errs, errors.New("DEV_MODE needs DEV_ADMIN_EMAIL and DEV_ADMIN_PASSWORD"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

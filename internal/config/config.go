package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Settings  SettingsConfig  `yaml:"settings"`
	Pricing   PricingDefaults `yaml:"pricing_defaults"`
	Sync      SyncConfig      `yaml:"sync"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains email delivery settings. An empty API key disables
// outbound email.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains token settings for the staff API
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// AuthConfig lists staff accounts allowed to use the API
type AuthConfig struct {
	Staff []StaffCredential `yaml:"staff"`
}

type StaffCredential struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	Role         string `yaml:"role"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SettingsConfig controls the cached settings provider
type SettingsConfig struct {
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
}

// PricingDefaults are the hard defaults used when the stored rental settings
// are missing or invalid.
type PricingDefaults struct {
	HourlyRateCents       int64  `yaml:"hourly_rate_cents"`
	GraceMinutes          int    `yaml:"grace_minutes"`
	BlockMinutes          int    `yaml:"block_minutes"`
	NightChargeTime       string `yaml:"night_charge_time"`
	NightMultiplier       int    `yaml:"night_multiplier"`
	StartDelayMinutes     int    `yaml:"start_delay_minutes"`
	RoundToNearestMinutes int    `yaml:"round_to_nearest_minutes"`
}

// SyncConfig controls the vehicle status synchronizer retry policy
type SyncConfig struct {
	MaxAttempts     int `yaml:"max_attempts"`
	BaseDelayMillis int `yaml:"base_delay_millis"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileVehicleStatuses string `yaml:"reconcile_vehicle_statuses"`
	RefreshSettings          string `yaml:"refresh_settings"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Settings cache defaults
	if c.Settings.CacheTTLMinutes == 0 {
		c.Settings.CacheTTLMinutes = 5
	}

	// Pricing defaults
	if c.Pricing.HourlyRateCents == 0 {
		c.Pricing.HourlyRateCents = 8000
	}
	if c.Pricing.GraceMinutes == 0 {
		c.Pricing.GraceMinutes = 15
	}
	if c.Pricing.BlockMinutes == 0 {
		c.Pricing.BlockMinutes = 30
	}
	if c.Pricing.NightChargeTime == "" {
		c.Pricing.NightChargeTime = "22:30"
	}
	if c.Pricing.NightMultiplier == 0 {
		c.Pricing.NightMultiplier = 2
	}
	if c.Pricing.StartDelayMinutes == 0 {
		c.Pricing.StartDelayMinutes = 10
	}
	if c.Pricing.RoundToNearestMinutes == 0 {
		c.Pricing.RoundToNearestMinutes = 5
	}

	// Synchronizer defaults
	if c.Sync.MaxAttempts == 0 {
		c.Sync.MaxAttempts = 3
	}
	if c.Sync.BaseDelayMillis == 0 {
		c.Sync.BaseDelayMillis = 200
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileVehicleStatuses == "" {
		c.Scheduler.ReconcileVehicleStatuses = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.RefreshSettings == "" {
		c.Scheduler.RefreshSettings = "0 */5 * * * *" // every 5 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Ops         OpsConfig      `mapstructure:"ops"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Backup      BackupConfig   `mapstructure:"backup"`
}

// ServerConfig contains the banking listener settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	TLSCertFile     string        `mapstructure:"tlsCertFile"`
	TLSKeyFile      string        `mapstructure:"tlsKeyFile"`
	MaxSessions     int           `mapstructure:"maxSessions"` // 0 = unbounded
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"` // seconds
	Compress        bool          `mapstructure:"compress"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"` // seconds
}

// OpsConfig contains the operational HTTP surface settings
type OpsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// DatabaseConfig contains ledger store connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// BackupConfig contains snapshot job settings
type BackupConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Dir       string        `mapstructure:"dir"`
	Interval  time.Duration `mapstructure:"interval"`  // hours
	Retention time.Duration `mapstructure:"retention"` // days
}

// TLSEnabled reports whether the encrypted transport is configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

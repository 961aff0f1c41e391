package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from the environment-specific YAML file with
// BANK_-prefixed environment variable overrides.
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine: defaults plus env vars carry a full
		// development setup. A malformed file is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	scaleDurations(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found in search paths")
}

func getEnvironment() string {
	env := os.Getenv("BANK_ENVIRONMENT")
	if env == "" {
		env = Development
	}
	return env
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 19908) // port the desktop clients dial
	v.SetDefault("server.tlsCertFile", "")
	v.SetDefault("server.tlsKeyFile", "")
	v.SetDefault("server.maxSessions", 0)
	v.SetDefault("server.idleTimeout", 30)     // seconds
	v.SetDefault("server.shutdownTimeout", 15) // seconds
	v.SetDefault("server.compress", true)

	v.SetDefault("ops.enabled", true)
	v.SetDefault("ops.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	// Credentials default to empty so the BANK_DATABASE_* variables can fill
	// them in; viper only maps env vars onto keys it already knows.
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 5) // seconds

	v.SetDefault("logger.level", "info")

	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.dir", "backup")
	v.SetDefault("backup.interval", 6)   // hours
	v.SetDefault("backup.retention", 30) // days
}

// durationKeys maps each duration-typed config key to the unit its raw
// numeric form is expressed in.
var durationKeys = map[string]time.Duration{
	"server.idleTimeout":       time.Second,
	"server.shutdownTimeout":   time.Second,
	"database.connMaxLifetime": time.Minute,
	"database.connMaxIdleTime": time.Minute,
	"database.retryDelay":      time.Second,
	"backup.interval":          time.Hour,
	"backup.retention":         24 * time.Hour,
}

// scaleDurations resolves the duration keys before unmarshalling. Bare
// numbers, whether from YAML, defaults or environment variables, are scaled
// by the key's documented unit; unit-suffixed values such as "500ms" are left
// for the standard duration decoding.
func scaleDurations(v *viper.Viper) {
	for key, unit := range durationKeys {
		raw := v.GetString(key)
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v.Set(key, time.Duration(n)*unit)
		}
	}
}

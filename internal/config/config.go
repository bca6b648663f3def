package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// OracleConfig holds tier oracle contract configuration
type OracleConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	// UpdaterKey is the hex-encoded private key of the contract updater.
	// Only the syncer needs it; the verifier runs without one.
	UpdaterKey string `mapstructure:"updater_key"`
}

// ClassifierConfig holds operational knobs for classification runs. The rule
// thresholds themselves are fixed in code and not configurable.
type ClassifierConfig struct {
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	PageSize       int `mapstructure:"page_size"`
}

// SyncConfig holds chain synchronizer configuration
type SyncConfig struct {
	BatchSize int `mapstructure:"batch_size"`
	PageSize  int `mapstructure:"page_size"`
	// ConfirmTimeout bounds how long a batch write waits to be mined
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	// PollInterval is the initial receipt polling interval
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// ReclassifierConfig holds configuration for the reclassifier binary
type ReclassifierConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	// Interval between passes when running continuously
	Interval time.Duration `mapstructure:"interval"`
}

// SyncerConfig holds configuration for the syncer binary
type SyncerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Oracle     OracleConfig   `mapstructure:"oracle"`
	Sync       SyncConfig     `mapstructure:"sync"`
}

// VerifierConfig holds configuration for the verifier binary
type VerifierConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Oracle     OracleConfig   `mapstructure:"oracle"`
	Sync       SyncConfig     `mapstructure:"sync"`
}

// LoadReclassifierConfig loads configuration for the reclassifier
func LoadReclassifierConfig(configFile string, envPath string) (*ReclassifierConfig, error) {
	v := configureViper("reclassifier", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "TIER_TRANSITIONS")
	v.SetDefault("nats.connection_name", "reclassifier")
	v.SetDefault("classifier.worker_pool_size", 8)
	v.SetDefault("classifier.page_size", 500)
	v.SetDefault("interval", "1h")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config ReclassifierConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateDatabase(&config.Database); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadSyncerConfig loads configuration for the syncer
func LoadSyncerConfig(configFile string, envPath string) (*SyncerConfig, error) {
	v := configureViper("syncer", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("sync.batch_size", 50)
	v.SetDefault("sync.page_size", 500)
	v.SetDefault("sync.confirm_timeout", "5m")
	v.SetDefault("sync.poll_interval", "2s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config SyncerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateDatabase(&config.Database); err != nil {
		return nil, err
	}
	if err := validateOracle(&config.Oracle); err != nil {
		return nil, err
	}
	if config.Oracle.UpdaterKey == "" {
		return nil, errors.New("oracle.updater_key is required")
	}

	return &config, nil
}

// LoadVerifierConfig loads configuration for the verifier
func LoadVerifierConfig(configFile string, envPath string) (*VerifierConfig, error) {
	v := configureViper("verifier", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("sync.batch_size", 50)
	v.SetDefault("sync.page_size", 500)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config VerifierConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateDatabase(&config.Database); err != nil {
		return nil, err
	}
	if err := validateOracle(&config.Oracle); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateDatabase checks the required database fields
func validateDatabase(c *DatabaseConfig) error {
	if c.Host == "" {
		return errors.New("database.host is required")
	}
	if c.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// validateOracle checks the required oracle fields
func validateOracle(c *OracleConfig) error {
	if c.RPCURL == "" {
		return errors.New("oracle.rpc_url is required")
	}
	if c.ContractAddress == "" {
		return errors.New("oracle.contract_address is required")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/syncer/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("TIER_ORACLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		"interval",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Oracle
		"oracle.rpc_url",
		"oracle.contract_address",
		"oracle.updater_key",
		// Classifier
		"classifier.worker_pool_size",
		"classifier.page_size",
		// Sync
		"sync.batch_size",
		"sync.page_size",
		"sync.confirm_timeout",
		"sync.poll_interval",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"go-equipment-analytics/pkg/utils"
)

const (
	BackendLocal = "local"
	BackendGCS   = "gcs"

	// DevJWTSecret is the placeholder secret written by Default. Servers warn when it is in use.
	DevJWTSecret = "dev-secret-change-me"

	defaultShutdownGrace = 10 * time.Second
)

// Config is the service configuration.
type Config struct {
	HTTPAddr        string `mapstructure:"http_addr" yaml:"http_addr"`
	LogMode         string `mapstructure:"log_mode" yaml:"log_mode"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	DatabaseDriver string `mapstructure:"database_driver" yaml:"database_driver"`
	DatabaseDSN    string `mapstructure:"database_dsn" yaml:"database_dsn"`

	// Artifact storage
	StorageBackend     string `mapstructure:"storage_backend" yaml:"storage_backend"`
	StorageDir         string `mapstructure:"storage_dir" yaml:"storage_dir"`
	GCSBucket          string `mapstructure:"gcs_bucket" yaml:"gcs_bucket"`
	GCSPrefix          string `mapstructure:"gcs_prefix" yaml:"gcs_prefix"`
	GCSCredentialsFile string `mapstructure:"gcs_credentials_file" yaml:"gcs_credentials_file"`

	JWTSecret         string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	AccessTokenTTLSec int    `mapstructure:"access_token_ttl_sec" yaml:"access_token_ttl_sec"`

	MaxUploadMB         int `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	RetentionKeep       int `mapstructure:"retention_keep" yaml:"retention_keep"`
	PreviewDefaultLimit int `mapstructure:"preview_default_limit" yaml:"preview_default_limit"`
}

var defaults = map[string]any{
	"http_addr":             ":8000",
	"log_mode":              "development",
	"shutdown_timeout":      "10s",
	"database_driver":       "sqlite3",
	"database_dsn":          "equipment.db",
	"storage_backend":       BackendLocal,
	"storage_dir":           "media",
	"gcs_bucket":            "",
	"gcs_prefix":            "",
	"gcs_credentials_file":  "",
	"jwt_secret":            DevJWTSecret,
	"access_token_ttl_sec":  3600,
	"max_upload_mb":         10,
	"retention_keep":        5,
	"preview_default_limit": 50,
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	if err := newViper().Unmarshal(&c); err != nil {
		// defaults always decode
		panic(err)
	}
	return &c
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads configuration from defaults, an optional YAML file and
// EQUIPMENT_* environment variables.
// Precedence: env > config file > defaults. With an empty cfgFile,
// ./equipment.yaml is used when present.
func Load(cfgFile string) (*Config, error) {
	c, err := load(newViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	v.SetEnvPrefix("EQUIPMENT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("equipment")
		v.SetConfigType("yaml")
		// optional read
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate checks values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case "sqlite3", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database_driver must be sqlite3 or pgx, got %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database_dsn is required"))
	}
	switch c.StorageBackend {
	case BackendLocal:
		if c.StorageDir == "" {
			errs = append(errs, errors.New("storage_dir is required for the local backend"))
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("gcs_bucket is required for the gcs backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage_backend must be %s or %s, got %q", BackendLocal, BackendGCS, c.StorageBackend))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.AccessTokenTTLSec <= 0 {
		errs = append(errs, errors.New("access_token_ttl_sec must be positive"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("max_upload_mb must be positive"))
	}
	if c.RetentionKeep < 0 {
		errs = append(errs, errors.New("retention_keep must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLSec) * time.Second
}

// ShutdownGrace is how long the server waits for in-flight requests. Unparsable
// values fall back to ten seconds.
func (c *Config) ShutdownGrace() time.Duration {
	return utils.ParseDuration(c.ShutdownTimeout, defaultShutdownGrace)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Save writes the configuration as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if path == "" {
		path = "equipment.yaml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

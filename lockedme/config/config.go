package config

import (
	"errors"
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/lockedme/lockedme"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file, environment variables or
// bound command line flags.
type Config struct {
	Directory         string    `mapstructure:"directory"`
	StrictDirectory   bool      `mapstructure:"strictDirectory"`
	MaxAttempts       int       `mapstructure:"maxAttempts"`
	AllowedExtensions []string  `mapstructure:"allowedExtensions"`
	Log               LogConfig `mapstructure:"log"`
}

// LogConfig stores logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Keys shared with flag bindings in the CLI.
const (
	KeyDirectory         = "directory"
	KeyStrictDirectory   = "strictDirectory"
	KeyMaxAttempts       = "maxAttempts"
	KeyAllowedExtensions = "allowedExtensions"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads configuration from file or environment variables using a
// fresh viper instance.
func LoadConfig(configPath string) (*Config, error) {
	return Load(viper.New(), configPath)
}

// Load reads configuration into v. Flags bound to v before the call take
// precedence over the file and the environment.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.AddConfigPath(internal.DefaultSystemConfig)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault(KeyDirectory, "")
	v.SetDefault(KeyStrictDirectory, false)
	v.SetDefault(KeyMaxAttempts, internal.DefaultMaxAttempts)
	v.SetDefault(KeyAllowedExtensions, []string{})
	v.SetDefault(KeyLogLevel, internal.DefaultLogLevel)
	v.SetDefault(KeyLogFormat, internal.DefaultLogFormat)

	// log.level becomes LOCKEDME_LOG_LEVEL
	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot check for us.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: maxAttempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	for i, ext := range c.AllowedExtensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			return fmt.Errorf("%w: allowedExtensions[%d] is empty", ErrInvalidConfig, i)
		}
		c.AllowedExtensions[i] = ext
	}
	return nil
}

package repool

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultSizeLimit   = 10
	DefaultMaxAge      = time.Hour
	DefaultMaxIdleTime = 5 * time.Minute
)

// Config holds pool limits. A zero duration disables the corresponding
// eviction check; a non-positive SizeLimit means the pool stores
// nothing (see New).
type Config struct {
	SizeLimit   int           `mapstructure:"size_limit"`    // Max idle resources retained
	MaxAge      time.Duration `mapstructure:"max_age"`       // Max lifetime since creation
	MaxIdleTime time.Duration `mapstructure:"max_idle_time"` // Max time since last release
}

// DefaultConfig returns the standard limits: 10 idle resources, one
// hour maximum age, five minutes maximum idle time.
func DefaultConfig() Config {
	return Config{
		SizeLimit:   DefaultSizeLimit,
		MaxAge:      DefaultMaxAge,
		MaxIdleTime: DefaultMaxIdleTime,
	}
}

// LoadConfig reads pool configuration from file and environment
// variables. It looks for repool.yaml in the working directory and
// honors REPOOL_SIZE_LIMIT, REPOOL_MAX_AGE, and REPOOL_MAX_IDLE_TIME.
// A missing config file is not an error; defaults apply.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("size_limit", DefaultSizeLimit)
	v.SetDefault("max_age", DefaultMaxAge)
	v.SetDefault("max_idle_time", DefaultMaxIdleTime)

	v.SetConfigName("repool")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is acceptable, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Package config loads settings for the counter commands and builds their logger.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. COUNTERDAPP_LOOP_ADDRESS
const EnvPrefix = "COUNTERDAPP"

// Config holds application configuration.
type Config struct {
	Ledger LedgerConfig `mapstructure:"ledger"`
	Loop   LoopConfig   `mapstructure:"loop"`
	Log    LogConfig    `mapstructure:"log"`
}

// LedgerConfig selects the ledger backend.
type LedgerConfig struct {
	Backend string `mapstructure:"backend"`
	DBName  string `mapstructure:"db_name"`
}

// LoopConfig selects the account and counter driven by the menu.
type LoopConfig struct {
	Address string `mapstructure:"address"`
	Counter string `mapstructure:"counter"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"backend":   "ledger.backend",
	"address":   "loop.address",
	"counter":   "loop.counter",
	"log-level": "log.level",
}

// Load reads configuration from defaults, an optional file, env and flags,
// in increasing order of precedence. No file is read when path is empty.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("ledger.backend", "memory")
	v.SetDefault("ledger.db_name", "")
	v.SetDefault("loop.address", "user1")
	v.SetDefault("loop.counter", "default")
	v.SetDefault("log.level", "warn")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ContextParams returns the ledger backend parameters
func (c Config) ContextParams() map[string]any {
	params := make(map[string]any)
	if c.Ledger.DBName != "" {
		params["db_name"] = c.Ledger.DBName
	}
	return params
}

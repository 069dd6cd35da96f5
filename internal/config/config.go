// Package config loads runtime settings from flags, environment
// variables (HISTORY_ prefix), and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	DatabaseURL string
	ListenAddr  string
	UseMemory   bool

	MidgardURL   string
	DepthAsset   string
	SyncInterval time.Duration
	Lookback     time.Duration
	WindowCount  int
	RateLimit    float64
	RateBurst    int

	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HISTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen-addr", ":8080")
	v.SetDefault("midgard-url", "https://midgard.ninerealms.com/v2/history")
	v.SetDefault("depth-asset", "BTC.BTC")
	v.SetDefault("sync-interval", 120*time.Second)
	v.SetDefault("lookback", 90*24*time.Hour)
	v.SetDefault("window-count", 400)
	v.SetDefault("rate-limit", 2.0)
	v.SetDefault("rate-burst", 4)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		DatabaseURL:  v.GetString("database-url"),
		ListenAddr:   v.GetString("listen-addr"),
		UseMemory:    v.GetBool("use-memory"),
		MidgardURL:   v.GetString("midgard-url"),
		DepthAsset:   v.GetString("depth-asset"),
		SyncInterval: v.GetDuration("sync-interval"),
		Lookback:     v.GetDuration("lookback"),
		WindowCount:  v.GetInt("window-count"),
		RateLimit:    v.GetFloat64("rate-limit"),
		RateBurst:    v.GetInt("rate-burst"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

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
	RPCURL          string
	Pool            string
	Quoter          string
	Owner           string
	Hooks           string
	TokenID         uint64
	Liquidity       string
	Width           int
	MaxSpendBps     int64
	BufferBps       int64
	Amount0         string
	Amount1         string
	UseFullBalances bool
	Recenter        int64
	Cooldown        time.Duration
	StatePath       string
	Out             string
	DatabaseURL     string
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
	Force           bool
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("width", 1200)
	v.SetDefault("max-spend-bps", int64(10000))
	v.SetDefault("buffer-bps", int64(0))
	v.SetDefault("cooldown", time.Duration(0))
	v.SetDefault("state", "./data/cooldown.json")
	v.SetDefault("out", "./data/plans.jsonl")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
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
		RPCURL:          v.GetString("rpc"),
		Pool:            v.GetString("pool"),
		Quoter:          v.GetString("quoter"),
		Owner:           v.GetString("owner"),
		Hooks:           v.GetString("hooks"),
		TokenID:         v.GetUint64("token-id"),
		Liquidity:       v.GetString("liquidity"),
		Width:           v.GetInt("width"),
		MaxSpendBps:     v.GetInt64("max-spend-bps"),
		BufferBps:       v.GetInt64("buffer-bps"),
		Amount0:         v.GetString("amount0"),
		Amount1:         v.GetString("amount1"),
		UseFullBalances: v.GetBool("use-full-balances"),
		Recenter:        v.GetInt64("recenter"),
		Cooldown:        v.GetDuration("cooldown"),
		StatePath:       v.GetString("state"),
		Out:             v.GetString("out"),
		DatabaseURL:     v.GetString("database-url"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
		Force:           v.GetBool("force"),
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig marks fatal startup validation failures. Anything wrapped
// with it terminates the process before the trading loop starts.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application.
type Config struct {
	Binance  Binance  `mapstructure:"binance"`
	Strategy Strategy `mapstructure:"strategy"`
	Trading  Trading  `mapstructure:"trading"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Binance holds the configuration for the Binance API.
type Binance struct {
	ApiKey         string  `mapstructure:"apiKey"`
	SecretKey      string  `mapstructure:"secretKey"`
	Testnet        bool    `mapstructure:"testnet"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Strategy holds the dual moving-average parameters.
type Strategy struct {
	Symbol     string `mapstructure:"symbol"`
	FastPeriod int    `mapstructure:"fast_period"`
	SlowPeriod int    `mapstructure:"slow_period"`
}

// Trading holds the configuration for order dispatch and risk limits.
type Trading struct {
	MaxPosition    float64 `mapstructure:"max_position"`
	TradeQuantity  float64 `mapstructure:"trade_quantity"`
	EnableTrading  bool    `mapstructure:"enable_trading"`
	OrderTimeout   int     `mapstructure:"order_timeout"`   // seconds, bound on one order round trip
	StatusInterval int     `mapstructure:"status_interval"` // seconds between status log lines
	ExportPath     string  `mapstructure:"export_path"`     // CSV written on shutdown, empty disables
}

// Server holds the configuration for the status API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the trade store.
// An empty DSN disables persistence; the journal then lives in memory only.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("binance.rate_limit", 20)      // requests per second
	viper.SetDefault("binance.rate_limit_burst", 5) // burst size
	viper.SetDefault("trading.max_position", 1.0)
	viper.SetDefault("trading.trade_quantity", 0.001)
	viper.SetDefault("trading.order_timeout", 10)
	viper.SetDefault("trading.status_interval", 60)
	viper.SetDefault("logger.level", "info")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

// Validate checks the loaded configuration for fatal problems. The returned
// errors all wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Strategy.Symbol == "" {
		return fmt.Errorf("%w: strategy.symbol is required", ErrInvalidConfig)
	}
	if c.Strategy.FastPeriod <= 0 || c.Strategy.SlowPeriod <= 0 {
		return fmt.Errorf("%w: strategy periods must be positive (fast=%d, slow=%d)",
			ErrInvalidConfig, c.Strategy.FastPeriod, c.Strategy.SlowPeriod)
	}
	if c.Strategy.FastPeriod >= c.Strategy.SlowPeriod {
		return fmt.Errorf("%w: fast_period %d must be smaller than slow_period %d",
			ErrInvalidConfig, c.Strategy.FastPeriod, c.Strategy.SlowPeriod)
	}
	if c.Trading.TradeQuantity <= 0 {
		return fmt.Errorf("%w: trading.trade_quantity must be positive", ErrInvalidConfig)
	}
	if c.Trading.MaxPosition <= 0 {
		return fmt.Errorf("%w: trading.max_position must be positive", ErrInvalidConfig)
	}
	if c.Trading.EnableTrading && (c.Binance.ApiKey == "" || c.Binance.SecretKey == "") {
		return fmt.Errorf("%w: API credentials are required when trading is enabled", ErrInvalidConfig)
	}
	return nil
}

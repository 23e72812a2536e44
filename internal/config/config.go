package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all settings for the API service, loaded from environment
// variables (with an optional .env file read by the caller).
type Config struct {
	ServerPort         string  `mapstructure:"SERVER_PORT"`
	StoreDriver        string  `mapstructure:"STORE_DRIVER"`
	DataDir            string  `mapstructure:"DATA_DIR"`
	DBSource           string  `mapstructure:"DB_SOURCE"`
	TokenSecret        string  `mapstructure:"TOKEN_SECRET"`
	TokenTTLHours      int     `mapstructure:"TOKEN_TTL_HOURS"`
	StartingBalance    float64 `mapstructure:"STARTING_BALANCE"`
	HorizonURL         string  `mapstructure:"HORIZON_URL"`
	SimulatedLatencyMS int     `mapstructure:"SIMULATED_LATENCY_MS"`
	CORSOrigins        string  `mapstructure:"CORS_ORIGINS"`
}

// Load reads configuration from the environment via viper.
func Load() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORE_DRIVER", DriverFile)
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("TOKEN_SECRET", "dev-secret-change-me")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("STARTING_BALANCE", 100.0)
	viper.SetDefault("HORIZON_URL", "https://horizon-testnet.stellar.org")
	viper.SetDefault("SIMULATED_LATENCY_MS", 0)
	viper.SetDefault("CORS_ORIGINS", "*")

	for _, key := range []string{
		"SERVER_PORT", "STORE_DRIVER", "DATA_DIR", "DB_SOURCE",
		"TOKEN_SECRET", "TOKEN_TTL_HOURS", "STARTING_BALANCE",
		"HORIZON_URL", "SIMULATED_LATENCY_MS", "CORS_ORIGINS",
	} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverFile, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.StoreDriver == DriverPostgres && cfg.DBSource == "" {
		return nil, fmt.Errorf("DB_SOURCE is required when STORE_DRIVER=postgres")
	}

	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 24
	}
	if cfg.StartingBalance < 0 {
		cfg.StartingBalance = 0
	}
	if cfg.SimulatedLatencyMS < 0 {
		cfg.SimulatedLatencyMS = 0
	}

	return &cfg, nil
}

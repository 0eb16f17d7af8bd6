package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	SqlitePath           string
	Port                 string
	IsProduction         bool
	ScheduleTickInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("SQLITE_PATH", "spendtrack.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SCHEDULE_TICK_INTERVAL", "1h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.SqlitePath = viper.GetString("SQLITE_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	tickStr := viper.GetString("SCHEDULE_TICK_INTERVAL")
	tick, err := time.ParseDuration(tickStr)
	if err != nil {
		log.Printf("Warning: Invalid SCHEDULE_TICK_INTERVAL format '%s'. Defaulting to 1h. Error: %v\n", tickStr, err)
		tick = time.Hour
	}
	cfg.ScheduleTickInterval = tick

	return cfg, nil
}

package config

import (
	"log"

	"github.com/spf13/viper"

	"sky_flights_booking/internal/models"
)

// Config holds all configuration values.
type Config struct {
	Env         string `mapstructure:"ENV"`
	SearchPort  string `mapstructure:"SEARCH_PORT"`
	BookingPort string `mapstructure:"BOOKING_PORT"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// External flight-search API.
	SkyAPIBaseURL    string `mapstructure:"SKY_API_BASE_URL"`
	SkyAPIKey        string `mapstructure:"SKY_API_KEY"`
	SkyAPITimeoutSec int    `mapstructure:"SKY_API_TIMEOUT_SEC"`

	// Browser origins allowed to call the services.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Static cabin layout backing the seat map.
	CabinRows        int      `mapstructure:"CABIN_ROWS"`
	CabinUnavailable []string `mapstructure:"CABIN_UNAVAILABLE"`
	CabinPremium     []string `mapstructure:"CABIN_PREMIUM"`
}

var AppConfig Config

// Load initializes Viper to read config values from file, env, or defaults
func Load() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("ENV", "development")
	viper.SetDefault("SEARCH_PORT", "8080")
	viper.SetDefault("BOOKING_PORT", "8081")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SKY_API_BASE_URL", "https://sky-scrapper.p.rapidapi.com/api/v1")
	viper.SetDefault("SKY_API_KEY", "")
	viper.SetDefault("SKY_API_TIMEOUT_SEC", 30)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	viper.SetDefault("CABIN_ROWS", 20)
	viper.SetDefault("CABIN_UNAVAILABLE", []string{"1A", "3C", "5D", "7F", "12B", "14E", "18A"})
	viper.SetDefault("CABIN_PREMIUM", []string{
		"1A", "1B", "1C", "1D", "1E", "1F",
		"2A", "2B", "2C", "2D", "2E", "2F",
		"3A", "3B", "3C", "3D", "3E", "3F",
	})

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// IsProduction checks if the environment is production
func IsProduction() bool {
	return AppConfig.Env == "production"
}

// CabinLayout returns the configured seat layout
func (c Config) CabinLayout() models.CabinLayout {
	return models.CabinLayout{
		Rows:        c.CabinRows,
		Unavailable: c.CabinUnavailable,
		Premium:     c.CabinPremium,
	}
}

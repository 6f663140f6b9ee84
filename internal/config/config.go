// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Royalty     RoyaltyConfig
	Discovery   DiscoveryConfig
	Simulator   SimulatorConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL int // in seconds
}

// RoyaltyConfig points at the remote royalty/ticketing platform.
type RoyaltyConfig struct {
	BaseURL string
	APIKey  string
	Timeout int // in seconds
}

// DiscoveryConfig points at the external event discovery API.
type DiscoveryConfig struct {
	BaseURL     string
	ConsumerKey string
	Timeout     int // in seconds
}

// SimulatorConfig carries the demo identities and defaults the
// integration simulator uses when the caller does not supply them.
type SimulatorConfig struct {
	BootstrapToken  string
	AdminUserID     string
	AdminWallet     string
	DefaultCurrency string
	MinOfferPrice   float64
	MaxOfferPrice   float64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "solpass_partner"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsInt("REDIS_CACHE_TTL", 300),
		},
		Royalty: RoyaltyConfig{
			BaseURL: getEnv("ROYALTY_API_URL", "https://api.solpass.app"),
			APIKey:  getEnv("ROYALTY_API_KEY", ""),
			Timeout: getEnvAsInt("ROYALTY_API_TIMEOUT", 30),
		},
		Discovery: DiscoveryConfig{
			BaseURL:     getEnv("DISCOVERY_API_URL", "https://app.ticketmaster.com/discovery/v2"),
			ConsumerKey: getEnv("DISCOVERY_CONSUMER_KEY", ""),
			Timeout:     getEnvAsInt("DISCOVERY_API_TIMEOUT", 15),
		},
		Simulator: SimulatorConfig{
			BootstrapToken:  getEnv("BOOTSTRAP_TOKEN", "dev-bootstrap-token"),
			AdminUserID:     getEnv("SIM_ADMIN_USER_ID", "shop-admin"),
			AdminWallet:     getEnv("SIM_ADMIN_WALLET", "ShopAdmin1234567890abcdefghijklmnopqrstuvwxyz"),
			DefaultCurrency: getEnv("SIM_DEFAULT_CURRENCY", "USD"),
			MinOfferPrice:   getEnvAsFloat("SIM_MIN_OFFER_PRICE", 50),
			MaxOfferPrice:   getEnvAsFloat("SIM_MAX_OFFER_PRICE", 150),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Royalty.APIKey == "" && c.Environment == "production" {
		return fmt.Errorf("royalty API key is required in production")
	}

	if c.Simulator.BootstrapToken == "dev-bootstrap-token" && c.Environment == "production" {
		return fmt.Errorf("bootstrap token must be changed in production")
	}

	if c.Database.Enabled && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

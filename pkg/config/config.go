package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Market   MarketConfig   `mapstructure:"market"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // memory, sqlite or postgres
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite file path
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type MarketConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type CacheConfig struct {
	ConceptTTLMinutes int `mapstructure:"concept_ttl_minutes"`
}

func (m MarketConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

func (c CacheConfig) ConceptTTL() time.Duration {
	return time.Duration(c.ConceptTTLMinutes) * time.Minute
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "stocksense.db")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 400)
	v.SetDefault("openai.temperature", 0.5)
	v.SetDefault("market.base_url", "https://www.alphavantage.co/query")
	v.SetDefault("market.timeout_seconds", 10)
	v.SetDefault("cache.concept_ttl_minutes", 60)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if apiKey := v.GetString("MARKET_DATA_API_KEY"); apiKey != "" {
		config.Market.APIKey = apiKey
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	return &config, nil
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL         = "http://api.evp.lt/currency/commercial/exchange"
	DefaultRefreshInterval = 10 * time.Second
	DefaultAPITimeout      = 10 * time.Second
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	API       APIConfig
	Converter ConverterConfig
	Logging   LoggingConfig
}
type ServerConfig struct {
	Port         string
	Host         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string // канал для событий конвертера, пусто - Redis не используется
}
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}
type ConverterConfig struct {
	RefreshInterval time.Duration
	DefaultAmount   decimal.Decimal
	DefaultFrom     string
	DefaultTo       string
	LatestOnly      bool
	AutoUpdate      bool
}
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" или "text"
}

// Метод для получения адреса сервера
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// LoadEnvFile подгружает .env из текущей директории, если он есть.
// Отсутствие файла не ошибка.
func LoadEnvFile() error {
	if err := godotenv.Load(); err == nil {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	envPath := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(envPath)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv собирает конфигурацию только из окружения, без .env
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			Mode:         getEnv("GIN_MODE", "debug"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", ""),
		},
		API: APIConfig{
			BaseURL: getEnv("EXCHANGE_API_URL", DefaultBaseURL),
			Timeout: getEnvAsDuration("API_TIMEOUT", DefaultAPITimeout),
		},
		Converter: ConverterConfig{
			RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", DefaultRefreshInterval),
			DefaultAmount:   getEnvAsDecimal("DEFAULT_AMOUNT", decimal.NewFromInt(1)),
			DefaultFrom:     getEnv("DEFAULT_FROM", "EUR"),
			DefaultTo:       getEnv("DEFAULT_TO", "USD"),
			LatestOnly:      getEnvAsBool("LATEST_ONLY", false),
			AutoUpdate:      getEnvAsBool("AUTO_UPDATE", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration
type Config struct {
	// Database
	DatabaseHost     string
	DatabasePort     string
	PostgresUser     string
	PostgresPassword string
	DatabaseName     string

	// Authentication
	JWTSecret string

	// Telegram notifications
	TelegramBotToken string
	AdminLinkBase    string

	// Discord announce channel mirror
	DiscordBotToken        string
	DiscordAnnounceChannel string

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string

	// Kafka heat-update stream
	KafkaBroker string
}

var (
	appConfig *Config
	onceEnv   sync.Once
)

func loadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		// Database - required
		DatabaseHost:     getEnvWithDefault("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnvWithDefault("DATABASE_PORT", "5432"),
		PostgresUser:     getEnvWithDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvWithDefault("POSTGRES_PASSWORD", "postgres"),
		DatabaseName:     getEnvWithDefault("DATABASE_NAME", "postgres"),

		// JWT - required
		JWTSecret: getEnvWithDefault("JWT_SECRET", "dummyjwt"),

		// Telegram - optional; notifications are disabled without a token
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminLinkBase:    getEnvWithDefault("ADMIN_LINK_BASE", "http://localhost:3003/admin"),

		// Discord - optional
		DiscordBotToken:        os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordAnnounceChannel: os.Getenv("DISCORD_ANNOUNCE_CHANNEL"),

		// Redis - optional; rate limiting is disabled without an address
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		// Kafka - optional; the heat-update stream is disabled without a broker
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
	}
}

func Env() *Config {
	onceEnv.Do(func() {
		appConfig = loadConfig()
	})
	return appConfig
}

// Helper functions
func getEnv(key string) string {
	value := os.Getenv(key)
	if value == "" && IsProduction() {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production
func IsProduction() bool {
	return getEnvWithDefault("ENVIRONMENT", "development") == "production"
}

// IsDevelopment returns true if running in development
func IsDevelopment() bool {
	return !IsProduction()
}
